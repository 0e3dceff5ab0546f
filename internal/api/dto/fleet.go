package dto

type AreaResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type ListAreasResponse struct {
	Areas []AreaResponse `json:"areas"`
}

type BinResponse struct {
	ID       string  `json:"id"`
	Area     string  `json:"area"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Level    int     `json:"level"`
	Priority int     `json:"priority"`
	Health   string  `json:"health"`
	Band     string  `json:"band"`
}

type ListBinsResponse struct {
	Bins []BinResponse `json:"bins"`
}
