package service

import (
	"context"
	"strings"

	"lineboost_console/internal/api/dto"
	"lineboost_console/pkg/net"
)

// AdminService 平台管理员的店铺管理，权限由后端校验
type AdminService struct {
	api *net.Client
}

func NewAdminService(api *net.Client) *AdminService {
	return &AdminService{api: api}
}

// Shops 全部店铺
func (s *AdminService) Shops(ctx context.Context, token string) ([]dto.AdminShop, error) {
	shops, err := net.Data[[]dto.AdminShop](ctx, s.api, net.Get("/admin/shops", token))
	if err != nil || shops == nil {
		return []dto.AdminShop{}, err
	}
	return shops, nil
}

// FilterShops 按店名或店主邮箱搜索
func FilterShops(shops []dto.AdminShop, keyword string) []dto.AdminShop {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return shops
	}
	out := make([]dto.AdminShop, 0, len(shops))
	for _, sh := range shops {
		if strings.Contains(strings.ToLower(sh.Name), keyword) || strings.Contains(strings.ToLower(sh.OwnerEmail), keyword) {
			out = append(out, sh)
		}
	}
	return out
}

// CreateShop 新建店铺
func (s *AdminService) CreateShop(ctx context.Context, token string, req dto.CreateAdminShopReq) error {
	req.Name = strings.TrimSpace(req.Name)
	req.OwnerUID = strings.TrimSpace(req.OwnerUID)
	if req.Name == "" || req.OwnerUID == "" {
		return net.NewValidationError("name", "กรุณากรอกชื่อร้านและเจ้าของร้าน")
	}
	return s.api.Exec(ctx, net.Post("/admin/shops", req, token))
}

// Shop 店铺详情
func (s *AdminService) Shop(ctx context.Context, token, shopID string) (dto.AdminShop, error) {
	return net.Data[dto.AdminShop](ctx, s.api, net.Get(net.JoinPath("admin", "shops", shopID), token))
}

// UpdateIntegration 修改对接配置
func (s *AdminService) UpdateIntegration(ctx context.Context, token, shopID string, req dto.ShopIntegrationReq) error {
	return s.api.Exec(ctx, net.Patch(net.JoinPath("admin", "shops", shopID, "integration"), req, token))
}

// UpdateTier 修改店铺套餐 Free / Pro
func (s *AdminService) UpdateTier(ctx context.Context, token, shopID, tier string) error {
	if tier != "Free" && tier != "Pro" {
		return net.NewValidationError("tier", "แพ็กเกจไม่ถูกต้อง")
	}
	return s.api.Exec(ctx, net.Patch(net.JoinPath("admin", "shops", shopID, "tier"), map[string]string{"tier": tier}, token))
}
