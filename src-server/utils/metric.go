package utils

type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
	FilterApply   chan float64
	RsvpDispatch  chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64),
		DatabaseWrite: make(chan float64),
		FilterApply:   make(chan float64),
		RsvpDispatch:  make(chan float64),
	}
}
