package record

// Batch is one run of the batch decoder over an input file.
type Batch struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Total      int    `json:"total"`
	Decoded    int    `json:"decoded"`
	Failed     int    `json:"failed"`
	StartedAt  int64  `json:"started_at"`
	FinishedAt *int64 `json:"finished_at,omitempty"`
}

// Failure is an input row that could not be decoded. Line is the 1-based
// line number in the input file, counting the header.
type Failure struct {
	BatchID string `json:"batch_id"`
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Smiles  string `json:"smiles"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
