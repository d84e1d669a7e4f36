package directoryservice

// Staff модель сотрудника из DirectoryService
type Staff struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
	Active   bool   `json:"active"`
}

// Service модель услуги из DirectoryService
type Service struct {
	ID              int64  `json:"id"`
	TenantID        int64  `json:"tenant_id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Active          bool   `json:"active"`
}

// ErrorResponse модель ошибки от DirectoryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
