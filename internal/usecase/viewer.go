package usecase

import "deliverus/internal/domain/model"

// リクエスト境界で一度だけ解決する閲覧者。
// 「customerなら自分の注文」「ownerなら自分の店の注文」の可視性判定は
// roleの文字列分岐をusecase中に散らさず、これを受け取って行う。
type Viewer struct {
	UserID int64
	Role   model.Role
}

func CustomerView(userID int64) Viewer {
	return Viewer{UserID: userID, Role: model.RoleCustomer}
}

func OwnerView(userID int64) Viewer {
	return Viewer{UserID: userID, Role: model.RoleOwner}
}

// canSeeOrder は注文の可視性ルール。
// customer: 注文のuserIdが自分 / owner: 注文先レストランのownerが自分。
func (v Viewer) canSeeOrder(o model.Order, restaurantOwnerID int64) bool {
	switch v.Role {
	case model.RoleCustomer:
		return o.UserID == v.UserID
	case model.RoleOwner:
		return restaurantOwnerID == v.UserID
	default:
		return false
	}
}

// canEditOrder は注文の編集・削除の権限ルール。customer本人だけ。
func (v Viewer) canEditOrder(o model.Order) bool {
	return v.Role == model.RoleCustomer && o.UserID == v.UserID
}

// ownsRestaurant は店の運営権限ルール。ownerで、その店の持ち主であること。
func (v Viewer) ownsRestaurant(r model.Restaurant) bool {
	return v.Role == model.RoleOwner && r.UserID == v.UserID
}
