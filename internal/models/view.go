package models

// LoadStatus is the state of the most recent dataset load of a view
type LoadStatus string

const (
	LoadIdle    LoadStatus = "idle"
	LoadPending LoadStatus = "loading"
	LoadReady   LoadStatus = "ready"
	LoadFailed  LoadStatus = "error"
)

// Layers holds the visibility toggles of a view
type Layers struct {
	Model   bool `json:"model"`
	Overlay bool `json:"overlay"`
}

// LayersRequest updates visibility toggles; nil fields are left unchanged
type LayersRequest struct {
	Model   *bool `json:"model"`
	Overlay *bool `json:"overlay"`
}

// PeriodRequest selects the period of a view
type PeriodRequest struct {
	Year  string `json:"year" binding:"required"`
	Month string `json:"month"`
}

// ViewState is the serialisable state of one view
type ViewState struct {
	ID          string            `json:"id"`
	Period      *Period           `json:"period,omitempty"`
	Status      LoadStatus        `json:"status"`
	Error       string            `json:"error,omitempty"`
	Layers      Layers            `json:"layers"`
	Summary     *AggregateSummary `json:"summary,omitempty"`
	Mitigations []MitigationPoint `json:"mitigations"`
}

// FieldResponse is the payload of GET /views/:id/field
type FieldResponse struct {
	View  ViewState     `json:"view"`
	Field *ThermalField `json:"field,omitempty"`
}
