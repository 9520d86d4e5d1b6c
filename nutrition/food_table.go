package nutrition

import "github.com/akihiro4321/favefit-sub001/entity"

// foodEntry is one canonical fixed-menu food with its per-serving nutrition.
type foodEntry struct {
	Name      string
	Nutrition entity.Nutrition
}

// foodTable is searched in order for partial matches, so more specific names
// must come before the shorter names they contain.
var foodTable = []foodEntry{
	{"ゆで卵", entity.Nutrition{Calories: 80, Protein: 7, Fat: 5, Carbs: 0.5}},
	{"プロテイン", entity.Nutrition{Calories: 120, Protein: 24, Fat: 1.5, Carbs: 3}},
	{"サラダチキン", entity.Nutrition{Calories: 110, Protein: 24, Fat: 1, Carbs: 0.5}},
	{"オートミール", entity.Nutrition{Calories: 114, Protein: 4, Fat: 2.1, Carbs: 20}},
	{"ヨーグルト", entity.Nutrition{Calories: 62, Protein: 3.6, Fat: 3, Carbs: 4.9}},
	{"納豆", entity.Nutrition{Calories: 90, Protein: 7.4, Fat: 4.5, Carbs: 5.4}},
	{"食パン", entity.Nutrition{Calories: 158, Protein: 5.3, Fat: 2.5, Carbs: 28}},
	{"おにぎり", entity.Nutrition{Calories: 180, Protein: 3, Fat: 0.5, Carbs: 39}},
	{"ご飯", entity.Nutrition{Calories: 234, Protein: 3.8, Fat: 0.5, Carbs: 55.7}},
	{"味噌汁", entity.Nutrition{Calories: 40, Protein: 2.5, Fat: 1.2, Carbs: 4.5}},
	{"バナナ", entity.Nutrition{Calories: 86, Protein: 1.1, Fat: 0.2, Carbs: 22.5}},
	{"牛乳", entity.Nutrition{Calories: 134, Protein: 6.6, Fat: 7.6, Carbs: 9.6}},
	{"豆腐", entity.Nutrition{Calories: 84, Protein: 7.4, Fat: 4.9, Carbs: 2.4}},
	{"サラダ", entity.Nutrition{Calories: 30, Protein: 1.2, Fat: 0.2, Carbs: 5.5}},
}

var foodIndex = func() map[string]entity.Nutrition {
	idx := make(map[string]entity.Nutrition, len(foodTable))
	for _, f := range foodTable {
		idx[f.Name] = f.Nutrition
	}
	return idx
}()

// Lookup finds nutrition for a title: exact match first, then the first
// table entry whose name is contained in the title.
func Lookup(title string) (entity.Nutrition, bool) {
	if n, ok := foodIndex[title]; ok {
		return n, true
	}
	for _, f := range foodTable {
		if containsName(title, f.Name) {
			return f.Nutrition, true
		}
	}
	return entity.Nutrition{}, false
}
