package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"lineboost_console/internal/api/dto"
	"lineboost_console/internal/session"
	"lineboost_console/pkg/logger"
	"lineboost_console/pkg/net"
	"lineboost_console/pkg/siteconfig"
)

// SiteService 网站搭建：草稿、发布、访问统计
type SiteService struct {
	api       *net.Client
	stores    *StoreService
	publicURL string // 控制台对外地址，用于拼公开链接
}

func NewSiteService(api *net.Client, stores *StoreService, publicURL string) *SiteService {
	return &SiteService{api: api, stores: stores, publicURL: strings.TrimRight(publicURL, "/")}
}

// Get GET /sites
func (s *SiteService) Get(ctx context.Context, sc Scope) (dto.SiteResp, error) {
	if err := sc.requireStore(); err != nil {
		return dto.SiteResp{}, err
	}
	return net.Flat[dto.SiteResp](ctx, s.api, net.Get("/sites", sc.Token).WithQuery("storeId", sc.StoreID), "draft", "published")
}

// Builder 搭建页数据
// 1. 有草稿用草稿 (转成 v2)，否则用模板
// 2. Hero 按钮链接为空时填 LINE OA 链接
// 3. 已发布时给出公开链接和 LIFF 链接
func (s *SiteService) Builder(ctx context.Context, st *session.Store, templateID string) (dto.BuilderState, error) {
	sc := ScopeOf(st)
	snap := st.Snapshot()
	storeName := ""
	if snap.Store != nil {
		storeName = snap.Store.Name
	}
	templateID = siteconfig.NormalizeTemplateID(templateID)

	var (
		site dto.SiteResp
		link dto.LineOALink
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		site, err = s.Get(gctx, sc)
		return err
	})
	g.Go(func() error {
		// OA 链接拿不到不影响搭建
		if l, err := s.stores.OALink(gctx, sc); err == nil {
			link = l
		} else {
			logger.Module("site").WithError(err).Debug("line oa link unavailable")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return s.templateState(templateID, storeName), err
	}

	state := s.templateState(templateID, storeName)
	if site.Draft != nil {
		state.Config = siteconfig.ToV2(site.Draft.Config, storeName, templateID)
		state.HasDraft = true
	}
	if state.Config.Hero.CtaURL == "" {
		state.Config.Hero.CtaURL = link.URL
	}
	state.LineOAURL = link.URL

	if site.Published != nil && site.Published.Slug != "" {
		state.Published = site.Published
		state.PublicURL = s.PublicURL(site.Published.Slug)
		state.LiffURL = s.LiffURL(state.PublicURL)
	}
	state.Preview = siteconfig.NormalizeConfig(siteconfig.Config{V2: &state.Config}, storeName)
	return state, nil
}

// ApplyTemplate 套用模板，店铺名覆盖模板里的示例名称
func (s *SiteService) ApplyTemplate(templateID, storeName string) dto.BuilderState {
	return s.templateState(siteconfig.NormalizeTemplateID(templateID), storeName)
}

// SaveDraft 保存草稿
func (s *SiteService) SaveDraft(ctx context.Context, sc Scope, cfg siteconfig.V2) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	return s.api.Exec(ctx, net.Post("/sites/draft", siteBody(sc.StoreID, cfg), sc.Token))
}

// Replace PUT /sites 直接覆盖站点配置
func (s *SiteService) Replace(ctx context.Context, sc Scope, cfg siteconfig.V2) error {
	if err := sc.requireStore(); err != nil {
		return err
	}
	return s.api.Exec(ctx, net.Put("/sites", siteBody(sc.StoreID, cfg), sc.Token))
}

// Publish 先保存草稿再发布，返回公开链接
func (s *SiteService) Publish(ctx context.Context, sc Scope, cfg siteconfig.V2) (string, error) {
	if err := s.SaveDraft(ctx, sc, cfg); err != nil {
		return "", err
	}
	resp, err := net.Flat[dto.PublishResp](ctx, s.api, net.Post("/sites/publish", map[string]string{"storeId": sc.StoreID}, sc.Token))
	if err != nil {
		return "", err
	}
	if resp.Slug == "" {
		return "", nil
	}
	return s.PublicURL(resp.Slug), nil
}

// Analytics GET /sites/analytics
func (s *SiteService) Analytics(ctx context.Context, sc Scope, days int) (dto.SiteAnalytics, error) {
	if err := sc.requireStore(); err != nil {
		return emptySiteAnalytics(days), err
	}
	if days <= 0 {
		days = 7
	}
	req := net.Get("/sites/analytics", sc.Token).WithQuery("storeId", sc.StoreID).WithQuery("days", strconv.Itoa(days))
	resp, err := net.Flat[dto.SiteAnalytics](ctx, s.api, req, "pageViews")
	if err != nil {
		return emptySiteAnalytics(days), err
	}
	if resp.TopPages == nil {
		resp.TopPages = []dto.PageStat{}
	}
	return resp, nil
}

// PublicURL 公开店铺地址
func (s *SiteService) PublicURL(slug string) string {
	return s.AbsURL("/public/" + url.PathEscape(slug))
}

// AbsURL 站内路径转绝对地址
func (s *SiteService) AbsURL(path string) string {
	return s.publicURL + path
}

// LiffURL 通过 LIFF 打开公开店铺，拿到 LINE 用户 ID 后回跳
func (s *SiteService) LiffURL(returnURL string) string {
	return s.publicURL + "/liff-bridge?returnUrl=" + url.QueryEscape(returnURL)
}

// ==================== 私有方法 ====================

func (s *SiteService) templateState(templateID, storeName string) dto.BuilderState {
	tpl := siteconfig.Template(templateID)
	cfg := tpl.Config
	if storeName != "" {
		cfg.Business.Name = storeName
	}
	return dto.BuilderState{
		Config:    cfg,
		Preview:   siteconfig.NormalizeConfig(siteconfig.Config{V2: &cfg}, storeName),
		Templates: siteconfig.Templates(),
	}
}

func siteBody(storeID string, cfg siteconfig.V2) map[string]any {
	cfg.Version = siteconfig.VersionV2
	cfg.TemplateID = siteconfig.NormalizeTemplateID(cfg.TemplateID)
	return map[string]any{"storeId": storeID, "config": cfg}
}

func emptySiteAnalytics(days int) dto.SiteAnalytics {
	return dto.SiteAnalytics{Days: days, TopPages: []dto.PageStat{}}
}
