package model

// Principal 已认证的请求方。nil 表示匿名访问
type Principal struct {
	UserID      uint     `json:"user_id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// HasRole 对 nil 安全，匿名用户不持有任何角色
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	want := role.Authority()
	for _, a := range p.Authorities {
		if a == want {
			return true
		}
	}
	return false
}

// IsUser 判断请求方是否就是指定用户
func (p *Principal) IsUser(userID uint) bool {
	return p != nil && p.UserID == userID
}
