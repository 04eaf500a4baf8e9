package types

type ErrorResponse struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Planner string `json:"planner"`
}

type DeleteNotesResponse struct {
	Success bool `json:"success"`
	Removed int  `json:"removed"`
}
