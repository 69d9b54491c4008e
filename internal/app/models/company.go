package models

// Company is an IOMAD company, one school
type Company struct {
	ID        int64  `json:"id" example:"3"`
	Name      string `json:"name" example:"Riverside Primary"`
	ShortName string `json:"shortName" example:"riverside"`
	City      string `json:"city" example:"Leeds"`
	Country   string `json:"country" example:"GB"`
	Suspended bool   `json:"suspended"`
}

// CompanySummary is a school with headline counts
type CompanySummary struct {
	Company
	Students int64 `json:"students"`
	Teachers int64 `json:"teachers"`
	Managers int64 `json:"managers"`
	Courses  int64 `json:"courses"`
	Licenses int64 `json:"licenses"`
}
