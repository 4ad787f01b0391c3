// Package policy 放纯判定函数：主页可见性和各类权限守卫，不做任何 IO
package policy

import "github.com/leon37/Hamhama/internal/model"

// ProfileView 判定一次主页访问所需的全部输入
type ProfileView struct {
	OwnerID      uint
	OwnerPrivate bool
	Viewer       *model.Principal // nil = 匿名
	// ViewerFollowsOwner 访问者是否在主人的粉丝集合中
	ViewerFollowsOwner bool
}

// CanViewProfile 决定能否查看主页、粉丝列表、关注列表
func CanViewProfile(v ProfileView) bool {
	// 1. 公开主页，所有人可见
	if !v.OwnerPrivate {
		return true
	}
	// 2. 私密主页，匿名不可见
	if v.Viewer == nil {
		return false
	}
	// 3. 本人总能看到自己
	if v.Viewer.UserID == v.OwnerID {
		return true
	}
	// 4. 只有粉丝可见
	return v.ViewerFollowsOwner
}
