package report

// ProgressUpdate is sent by the batch loops to an optional progress UI.
type ProgressUpdate struct {
	TotalDelta   int
	SuccessDelta int
	SkipDelta    int
	FailDelta    int
	BytesDelta   int64
	Current      string
}

// Send is a no-op when updates is nil.
func Send(updates chan<- ProgressUpdate, u ProgressUpdate) {
	if updates != nil {
		updates <- u
	}
}

func Done(updates chan<- ProgressUpdate, item Item) {
	u := ProgressUpdate{Current: item.ID}
	switch item.Outcome {
	case OutcomeSuccess:
		u.SuccessDelta = 1
		u.BytesDelta = item.SrcBytes - item.DstBytes
	case OutcomeSkipped:
		u.SkipDelta = 1
	case OutcomeFailed:
		u.FailDelta = 1
	}
	Send(updates, u)
}
