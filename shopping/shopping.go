package shopping

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/akihiro4321/favefit-sub001/entity"
)

// Category taxonomy of the shopping list.
const (
	CategoryVegetable = "vegetable"
	CategoryMeat      = "meat"
	CategoryFish      = "fish"
	CategorySeasoning = "seasoning"
	CategoryOther     = "other"
)

// Categories lists the taxonomy in display order.
var Categories = []string{CategoryVegetable, CategoryMeat, CategoryFish, CategorySeasoning, CategoryOther}

// IngredientUsage is one ingredient line taken from a meal.
type IngredientUsage struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// categoryKeywords is checked in order; the first category with a matching
// keyword wins. Seasonings come first so "鶏がらスープの素" is not meat.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategorySeasoning, []string{
		"醤油", "しょうゆ", "味噌", "みそ", "塩", "砂糖", "酢", "みりん", "酒", "油", "胡椒", "こしょう",
		"だし", "スープの素", "コンソメ", "ソース", "ケチャップ", "マヨネーズ", "ドレッシング", "スパイス",
		"カレー粉", "豆板醤", "ごま油", "オリーブオイル", "片栗粉", "小麦粉",
		"soy sauce", "salt", "sugar", "black pepper", "white pepper", "vinegar", "olive oil", "sesame oil",
		"oil", "sauce", "spice", "stock",
	}},
	{CategoryFish, []string{
		"鮭", "さけ", "サーモン", "鯖", "さば", "サバ", "鯛", "たら", "鱈", "まぐろ", "マグロ", "ツナ", "えび", "エビ",
		"海老", "いか", "イカ", "たこ", "あさり", "しらす", "ぶり", "魚", "ほたて", "帆立",
		"salmon", "tuna", "cod", "shrimp", "prawn", "fish", "mackerel", "squid", "clam",
	}},
	{CategoryMeat, []string{
		"鶏", "とり", "チキン", "豚", "ぶた", "ポーク", "牛", "ビーフ", "ひき肉", "挽肉", "肉", "ベーコン",
		"ハム", "ソーセージ", "ウインナー", "ささみ",
		"chicken", "pork", "beef", "bacon", "ham", "sausage", "lamb", "turkey",
	}},
	{CategoryVegetable, []string{
		"キャベツ", "レタス", "玉ねぎ", "たまねぎ", "玉葱", "にんじん", "人参", "じゃがいも", "ほうれん草",
		"小松菜", "ブロッコリー", "トマト", "きゅうり", "なす", "ピーマン", "もやし", "大根", "ねぎ", "白菜",
		"しめじ", "えのき", "しいたけ", "きのこ", "かぼちゃ", "ごぼう", "アボカド", "パプリカ", "にんにく",
		"生姜", "しょうが", "野菜",
		"cabbage", "lettuce", "onion", "carrot", "potato", "spinach", "broccoli", "tomato", "cucumber",
		"eggplant", "bell pepper", "pepper", "mushroom", "garlic", "ginger", "avocado", "vegetable",
	}},
}

// Categorize assigns a taxonomy category from keywords in the ingredient name.
// Latin keywords must start a word, so "oil" does not match "boiled".
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if containsKeyword(lower, kw) {
				return group.category
			}
		}
	}
	return CategoryOther
}

func containsKeyword(s, kw string) bool {
	if kw == "" || kw[0] >= utf8.RuneSelf {
		return strings.Contains(s, kw)
	}
	for from := 0; ; {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 || !isASCIILetter(s[i-1]) {
			return true
		}
		from = i + 1
	}
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}

// Aggregate turns ingredient usages into unchecked shopping items. Entries
// with the same name are kept as separate lines since free-text amounts
// cannot be summed.
func Aggregate(usages []IngredientUsage) []entity.ShoppingListItem {
	items := make([]entity.ShoppingListItem, 0, len(usages))
	for _, u := range usages {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			continue
		}
		items = append(items, entity.ShoppingListItem{
			Ingredient: name,
			Amount:     strings.TrimSpace(u.Amount),
			Category:   Categorize(name),
			Checked:    false,
		})
	}
	return items
}

// SetChecked updates one item's checked flag. It reports whether anything
// changed, so repeating a call is a no-op.
func SetChecked(items []entity.ShoppingListItem, index int, checked bool) (bool, error) {
	if index < 0 || index >= len(items) {
		return false, fmt.Errorf("%w: shopping list item %d", entity.ErrNotFound, index)
	}
	if items[index].Checked == checked {
		return false, nil
	}
	items[index].Checked = checked
	return true, nil
}

// Group is the category view of a shopping list. Index refers back to the
// item's position in the flat list.
type Group struct {
	Category string        `json:"category"`
	Items    []IndexedItem `json:"items"`
}

type IndexedItem struct {
	Index int `json:"index"`
	entity.ShoppingListItem
}

// GroupByCategory builds the derived category view in taxonomy order,
// omitting empty categories.
func GroupByCategory(items []entity.ShoppingListItem) []Group {
	buckets := make(map[string][]IndexedItem, len(Categories))
	for i, item := range items {
		cat := item.Category
		if cat == "" {
			cat = CategoryOther
		}
		buckets[cat] = append(buckets[cat], IndexedItem{Index: i, ShoppingListItem: item})
	}
	var groups []Group
	for _, cat := range Categories {
		if len(buckets[cat]) > 0 {
			groups = append(groups, Group{Category: cat, Items: buckets[cat]})
			delete(buckets, cat)
		}
	}
	// Categories outside the taxonomy (from older plans) go last, by name.
	rest := make([]string, 0, len(buckets))
	for cat := range buckets {
		rest = append(rest, cat)
	}
	sort.Strings(rest)
	for _, cat := range rest {
		groups = append(groups, Group{Category: cat, Items: buckets[cat]})
	}
	return groups
}

var amountPattern = regexp.MustCompile(`[0-9０-９]|^(少々|適量|少量|ひとつまみ|お好みで|大さじ|小さじ|カップ|半分|約)`)

// ParseIngredient splits "鶏むね肉 200g" into name and amount. Strings without
// a trailing quantity token are returned whole as the name.
func ParseIngredient(s string) IngredientUsage {
	s = strings.TrimSpace(strings.ReplaceAll(s, "　", " "))
	if s == "" {
		return IngredientUsage{}
	}
	for _, sep := range []string{":", "：", "…"} {
		if i := strings.LastIndex(s, sep); i > 0 {
			name := strings.TrimSpace(s[:i])
			amount := strings.TrimSpace(s[i+len(sep):])
			if name != "" && amount != "" {
				return IngredientUsage{Name: name, Amount: amount}
			}
		}
	}
	if i := strings.LastIndex(s, " "); i > 0 {
		tail := strings.TrimSpace(s[i+1:])
		if amountPattern.MatchString(tail) {
			return IngredientUsage{Name: strings.TrimSpace(s[:i]), Amount: tail}
		}
	}
	return IngredientUsage{Name: s}
}

// FromDays flattens every meal's ingredients in day and slot order.
func FromDays(days []entity.DayPlan) []IngredientUsage {
	var usages []IngredientUsage
	for d := range days {
		for _, slot := range entity.Slots {
			meal := days[d].Meals.Slot(slot)
			for _, ing := range meal.Ingredients {
				if u := ParseIngredient(ing); u.Name != "" {
					usages = append(usages, u)
				}
			}
		}
	}
	return usages
}
