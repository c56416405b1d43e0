package domain

// CategoryMeta は閲覧画面のカテゴリボタンに表示するメタ情報。
type CategoryMeta struct {
	Code  string
	Title string
	Icon  string
}

// CategoryCatalog lists the fixed categories in display order.
var CategoryCatalog = []CategoryMeta{
	{Code: "a", Title: "Technical", Icon: "code"},
	{Code: "b", Title: "Behavioral", Icon: "groups"},
	{Code: "c", Title: "Situational", Icon: "design_services"},
	{Code: "d", Title: "Brain Teasers", Icon: "psychology_alt"},
}

// LookupCategory はコードに対応するメタ情報を返す。
func LookupCategory(code string) (CategoryMeta, bool) {
	for _, meta := range CategoryCatalog {
		if meta.Code == code {
			return meta, true
		}
	}
	return CategoryMeta{}, false
}
