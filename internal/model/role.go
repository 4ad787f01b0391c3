package model

import (
	"fmt"
	"strings"
)

// Role 用户角色标签
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// AuthorityPrefix 令牌与鉴权层匹配的权限前缀，例如 ROLE_ADMIN
const AuthorityPrefix = "ROLE_"

// Authority 返回带前缀的权限字符串
func (r Role) Authority() string {
	return AuthorityPrefix + string(r)
}

// ParseRole 解析角色名，大小写不敏感，允许带 ROLE_ 前缀
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, AuthorityPrefix)
	switch Role(name) {
	case RoleUser, RoleAdmin:
		return Role(name), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
}

// Authorities 把角色集合渲染为权限列表 (去重，保持顺序)
func Authorities(roles []Role) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[Role]bool, len(roles))
	for _, r := range roles {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r.Authority())
	}
	return out
}
