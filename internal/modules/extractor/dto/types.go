package dto

type DecodeInput struct {
	Text string
}

type DecodeOutput struct {
	Scale          float64
	Height         float64
	Candidate      string
	CandidateIndex int
	Strategy       string
	Printable      bool
}
