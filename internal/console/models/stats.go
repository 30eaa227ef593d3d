package models

// LevelCount / ServiceCount / DateCount are aggregation buckets used by the
// dashboard payload.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats feeds the dashboard view.
type DashboardStats struct {
	TotalLogs     int            `json:"total_logs"`
	LogsToday     int            `json:"logs_today"`
	ErrorLogs     int            `json:"error_logs"`
	FilesUploaded int            `json:"files_uploaded"`
	LogsByLevel   []LevelCount   `json:"logs_by_level"`
	LogsByService []ServiceCount `json:"logs_by_service"`
	LogsOverTime  []DateCount    `json:"logs_over_time"`
	RecentLogs    []LogEntry     `json:"recent_logs"`
}

// SystemStats reports the health of the backend's storage collaborators.
type SystemStats struct {
	Elasticsearch struct {
		Status         string `json:"status"`
		DocumentsCount int    `json:"documents_count"`
		IndicesCount   int    `json:"indices_count"`
	} `json:"elasticsearch"`
	MongoDB struct {
		Status           string `json:"status"`
		Database         string `json:"database"`
		CollectionsCount int    `json:"collections_count,omitempty"`
	} `json:"mongodb"`
	Redis struct {
		Status    string `json:"status"`
		KeysCount int    `json:"keys_count"`
	} `json:"redis"`
}
