package api

type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	ExtractedAt string `json:"extracted_at,omitempty"`
}

type ServiceResponse struct {
	TrainUID         string             `json:"train_uid"`
	TrainIdentity    string             `json:"train_identity,omitempty"`
	TrainCategory    string             `json:"train_category,omitempty"`
	TrainServiceCode string             `json:"train_service_code,omitempty"`
	Operator         string             `json:"operator,omitempty"`
	RSID             string             `json:"rsid,omitempty"`
	PowerType        string             `json:"power_type,omitempty"`
	Speed            string             `json:"speed,omitempty"`
	StpIndicator     string             `json:"stp_indicator"`
	Cancelled        bool               `json:"cancelled,omitempty"`
	RunsFrom         string             `json:"runs_from"`
	RunsTo           string             `json:"runs_to"`
	DaysRun          string             `json:"days_run"`
	Locations        []ScheduleLocation `json:"locations,omitempty"`
}

type ScheduleLocation struct {
	Type            string  `json:"type"`
	Tiploc          string  `json:"tiploc"`
	Crs             *string `json:"crs,omitempty"`
	FullName        *string `json:"full_name,omitempty"`
	Arrival         *string `json:"arrival,omitempty"`
	Departure       *string `json:"departure,omitempty"`
	Pass            *string `json:"pass,omitempty"`
	PublicArrival   *string `json:"public_arrival,omitempty"`
	PublicDeparture *string `json:"public_departure,omitempty"`
	Platform        string  `json:"platform,omitempty"`
	Line            string  `json:"line,omitempty"`
	Path            string  `json:"path,omitempty"`
	Activity        string  `json:"activity,omitempty"`
}

type LocationResponse struct {
	Tiploc   string `json:"tiploc"`
	Crs      string `json:"crs,omitempty"`
	FullName string `json:"full_name,omitempty"`
	Stanox   int    `json:"stanox,omitempty"`
}

type AssociationResponse struct {
	MainTrainUID  string `json:"main_train_uid"`
	AssocTrainUID string `json:"assoc_train_uid"`
	Category      string `json:"category,omitempty"`
	Location      string `json:"location"`
	StpIndicator  string `json:"stp_indicator"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRun       string `json:"days_run"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
