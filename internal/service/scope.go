package service

import (
	"lineboost_console/internal/session"
	"lineboost_console/pkg/net"
)

// ErrNoActiveStore 需要店铺但会话没有当前店铺
var ErrNoActiveStore = net.NewValidationError("storeId", "กรุณาเลือกร้านค้าก่อน")

// Scope 一次页面调用的身份与租户
type Scope struct {
	Token   string
	StoreID string
	Tier    session.Tier
}

// ScopeOf 从会话取当前用户 Token、店铺和套餐
func ScopeOf(st *session.Store) Scope {
	snap := st.Snapshot()
	sc := Scope{Token: st.Token(), StoreID: snap.ActiveStoreID(), Tier: session.TierStarter}
	if snap.User != nil && snap.User.Tier != "" {
		sc.Tier = snap.User.Tier
	}
	return sc
}

func (s Scope) requireStore() error {
	if s.StoreID == "" {
		return ErrNoActiveStore
	}
	return nil
}
