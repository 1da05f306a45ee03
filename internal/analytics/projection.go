package analytics

// PeriodSeries is a rollup in column form, as a chart axis consumes it
type PeriodSeries struct {
	Periods []string  `json:"periods"`
	Profits []float64 `json:"profits"`
	Losses  []float64 `json:"losses"`
}

// ChartData is the payload the charts page renders from
type ChartData struct {
	Dates        []string                `json:"dates"`
	Profits      []float64               `json:"profits"`
	Losses       []float64               `json:"losses"`
	Results      []float64               `json:"results"`
	Efficiency   Efficiency              `json:"efficiency"`
	History      History                 `json:"history"`
	Consolidated map[string]PeriodSeries `json:"consolidated"`
	RiskReturn   RiskReturn              `json:"risk_return"`
	TotalRecords int                     `json:"total_records"`
}

// Series returns the rollup for g in column form. Unknown granularities yield empty series.
func (r *Report) Series(g Granularity) PeriodSeries {
	rows := r.Rollups[g]
	s := PeriodSeries{
		Periods: make([]string, 0, len(rows)),
		Profits: make([]float64, 0, len(rows)),
		Losses:  make([]float64, 0, len(rows)),
	}
	for _, row := range rows {
		s.Periods = append(s.Periods, row.Period)
		s.Profits = append(s.Profits, row.Profit)
		s.Losses = append(s.Losses, row.Loss)
	}
	return s
}

// ChartData projects the report into chart arrays.
// The flat dates/profits/losses/results series split each max result by sign per record.
func (r *Report) ChartData() ChartData {
	n := len(r.History.MaxResult)
	data := ChartData{
		Dates:        append(make([]string, 0, n), r.History.Dates...),
		Profits:      make([]float64, 0, n),
		Losses:       make([]float64, 0, n),
		Results:      append(make([]float64, 0, n), r.History.MaxResult...),
		Efficiency:   r.Efficiency,
		History:      r.History,
		Consolidated: make(map[string]PeriodSeries, len(Granularities)),
		RiskReturn:   r.RiskReturn,
		TotalRecords: r.TotalRecords,
	}

	for _, v := range r.History.MaxResult {
		switch {
		case v > 0:
			data.Profits = append(data.Profits, v)
			data.Losses = append(data.Losses, 0)
		case v < 0:
			data.Profits = append(data.Profits, 0)
			data.Losses = append(data.Losses, -v)
		default:
			data.Profits = append(data.Profits, 0)
			data.Losses = append(data.Losses, 0)
		}
	}

	for _, g := range Granularities {
		data.Consolidated[string(g)] = r.Series(g)
	}
	return data
}
