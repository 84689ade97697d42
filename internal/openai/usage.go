package openai

// Usage is the cost estimate attached to a transcription response.
type Usage struct {
	DurationInMinutes float64 `json:"durationInMinutes"`
	CostInCents       float64 `json:"costInCents"`
}

const (
	// pcmBytesPerMinute assumes 16 kHz, 16-bit mono PCM. Compressed uploads
	// (mp3/aac) overstate duration and cost under this assumption; the value
	// is an estimate, not billed truth.
	pcmBytesPerMinute = 16000 * 2 * 60

	centsPerMinute = 0.6
)

// EstimateUsage derives the duration and cost approximation from the upload
// size alone.
func EstimateUsage(sizeBytes int64) Usage {
	minutes := float64(sizeBytes) / pcmBytesPerMinute
	return Usage{
		DurationInMinutes: minutes,
		CostInCents:       minutes * centsPerMinute,
	}
}
