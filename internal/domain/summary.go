package domain

type Summary struct {
	Hits              int     `json:"hits"`
	Misses            int     `json:"misses"`
	FalseAlarms       int     `json:"falseAlarms"`
	CorrectRejections int     `json:"correctRejections"`
	HitRate           float64 `json:"hitRate"`
	FalseAlarmRate    float64 `json:"falseAlarmRate"`
	DPrime            float64 `json:"dPrime"`
	MeanReactionMs    float64 `json:"meanReactionMs"`
	ReactionStdDevMs  float64 `json:"reactionStdDevMs"`
}

func (s Summary) TotalTrials() int {
	return s.Hits + s.Misses + s.FalseAlarms + s.CorrectRejections
}
