package pricing

// FormatHour renders a raw record timestamp as a 24-hour "15:04" string for
// presentation. Aggregation never calls this; it operates on raw strings
// only. Unparseable timestamps fall back to the raw value.
func FormatHour(ts string) string {
	parsed, err := Record{Timestamp: ts}.Time()
	if err != nil {
		return ts
	}
	return parsed.Format("15:04")
}
