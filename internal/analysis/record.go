package analysis

// Measurement is a single vibration velocity reading in mm/s.
type Measurement struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

// Record is one piece of equipment with its chronological readings.
type Record struct {
	ID           string        `json:"id" validate:"required"`
	Name         string        `json:"name"`
	Motor        string        `json:"motor"`
	Power        float64       `json:"power" validate:"gte=0"`
	Measurements []Measurement `json:"measurements"`
}

// Append returns a copy of r with m added after the existing readings.
func (r Record) Append(m Measurement) Record {
	out := r
	out.Measurements = make([]Measurement, len(r.Measurements), len(r.Measurements)+1)
	copy(out.Measurements, r.Measurements)
	out.Measurements = append(out.Measurements, m)
	return out
}

// Values extracts the reading values in sequence order.
func (r Record) Values() []float64 {
	values := make([]float64, len(r.Measurements))
	for i, m := range r.Measurements {
		values[i] = m.Value
	}
	return values
}

// Latest returns the last reading value, or 0 when there are none.
func (r Record) Latest() float64 {
	if len(r.Measurements) == 0 {
		return 0
	}
	return r.Measurements[len(r.Measurements)-1].Value
}
