package session

import "math"

// Unlimited 表示不限额度
const Unlimited = math.MaxInt

// Limits 套餐额度
type Limits struct {
	MaxFollowers      int    `json:"maxFollowers"`
	MonthlyBroadcasts int    `json:"monthlyBroadcasts"`
	AIGeneration      int    `json:"aiGeneration"`
	Support           string `json:"support"`
}

// Plan 套餐定义
type Plan struct {
	Tier     Tier     `json:"tier"`
	Name     string   `json:"name"`
	Price    int      `json:"price"` // 泰铢/月
	Features []string `json:"features"`
	Limits   Limits   `json:"limits"`
}

var plans = map[Tier]Plan{
	TierStarter: {
		Tier:  TierStarter,
		Name:  "Starter",
		Price: 0,
		Features: []string{
			"ผู้ติดตามสูงสุด 1,000 คน",
			"แบรอดแคสต์ 500 ข้อความ/เดือน",
			"รายงานพื้นฐาน",
			"ตอบกลับอัตโนมัติ",
		},
		Limits: Limits{MaxFollowers: 1000, MonthlyBroadcasts: 500, AIGeneration: 10, Support: "email"},
	},
	TierGrowth: {
		Tier:  TierGrowth,
		Name:  "Growth",
		Price: 1990,
		Features: []string{
			"ผู้ติดตามสูงสุด 10,000 คน",
			"แบรอดแคสต์ไม่จำกัด",
			"รายงานขั้นสูง + Analytics",
			"AI สร้างข้อความ 100 ครั้ง/เดือน",
			"แท็กลูกค้าอัตโนมัติ",
			"Support แชทสด",
		},
		Limits: Limits{MaxFollowers: 10000, MonthlyBroadcasts: Unlimited, AIGeneration: 100, Support: "chat"},
	},
	TierEnterprise: {
		Tier:  TierEnterprise,
		Name:  "Enterprise",
		Price: 4990,
		Features: []string{
			"ผู้ติดตามไม่จำกัด",
			"แบรอดแคสต์ไม่จำกัด",
			"รายงาน + Analytics แบบ Real-time",
			"AI สร้างข้อความไม่จำกัด",
			"API Access",
			"Custom Integration",
			"Dedicated Account Manager",
			"Support 24/7",
		},
		Limits: Limits{MaxFollowers: Unlimited, MonthlyBroadcasts: Unlimited, AIGeneration: Unlimited, Support: "24/7"},
	},
}

// PlanFor 未知等级按 starter 处理
func PlanFor(t Tier) Plan {
	if p, ok := plans[t]; ok {
		return p
	}
	return plans[TierStarter]
}

// Plans 按价格从低到高
func Plans() []Plan {
	return []Plan{plans[TierStarter], plans[TierGrowth], plans[TierEnterprise]}
}

// CanUseAIBroadcast AI 生成广播文案需要 growth 及以上
func CanUseAIBroadcast(t Tier) bool {
	return t == TierGrowth || t == TierEnterprise
}

// IsUnlimited 额度是否不限
func IsUnlimited(v int) bool {
	return v == Unlimited
}
