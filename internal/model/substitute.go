package model

// Substitute 一个替代食材及理由
type Substitute struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// SubstituteResult 大模型返回的结构化替代建议
type SubstituteResult struct {
	Original    string       `json:"original"`
	Substitutes []Substitute `json:"substitutes"`
}
