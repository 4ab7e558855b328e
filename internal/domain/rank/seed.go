package rank

import "github.com/shopspring/decimal"

// Defaults returns the fixed starter catalog used by the seed endpoint and
// the seed-db command.
func Defaults() []Rank {
	return []Rank{
		{
			Name:        "VIP",
			Description: "Стартовый донат с базовыми привилегиями",
			Price:       decimal.NewFromInt(149),
			Color:       "#10b981",
			Perks:       []string{"/kit vip", "+2 сетхомы", "Ежедневный бонус"},
			Popular:     false,
			Icon:        "Star",
		},
		{
			Name:        "Premium",
			Description: "Расширенные возможности и бонусы",
			Price:       decimal.NewFromInt(299),
			Color:       "#3b82f6",
			Perks:       []string{"/repair", "+5 сетхомов", "Цветной чат"},
			Popular:     true,
			Icon:        "Crown",
		},
		{
			Name:        "Deluxe",
			Description: "Максимальные привилегии для истинных ценителей",
			Price:       decimal.NewFromInt(599),
			Color:       "#f59e0b",
			Perks:       []string{"/fly", "+10 сетхомов", "Эффекты и частицы"},
			Popular:     false,
			Icon:        "Gem",
		},
	}
}
