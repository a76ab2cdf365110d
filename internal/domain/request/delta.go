package request

// ApplyDelta returns a new snapshot in which the record with confirmed.ID is
// replaced by the server-confirmed version, or appended when it was not in the
// snapshot yet. The input slice is not modified.
func ApplyDelta(snapshot []Request, confirmed Request) []Request {
	out := make([]Request, 0, len(snapshot)+1)
	replaced := false
	for _, r := range snapshot {
		if r.ID == confirmed.ID {
			out = append(out, confirmed)
			replaced = true
			continue
		}
		out = append(out, r)
	}
	if !replaced {
		out = append(out, confirmed)
	}
	return out
}
