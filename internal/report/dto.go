package report

type GenerateRequest struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	ShowOnlyActive bool   `json:"showOnlyActive"`
}

type GenerateResponse struct {
	ReportData []Row   `json:"reportData"`
	Summary    Summary `json:"summary"`
}
