package playlist

import (
	"regexp"
	"strings"
)

// Category 是作用在曲目文件名上的命名过滤器。
type Category string

const (
	CategoryAll     Category = "all"
	CategoryChinese Category = "chinese"
	CategoryEnglish Category = "english"
	CategoryRock    Category = "rock"
	CategoryJazz    Category = "jazz"
	CategoryAM      Category = "a-m"
	CategoryNZ      Category = "n-z"
	CategoryShuffle Category = "shuffle"
	CategoryDefault Category = "default"
)

var (
	hanPattern   = regexp.MustCompile(`\p{Han}`)
	rangeAM      = regexp.MustCompile(`^[a-mA-M]`)
	rangeNZ      = regexp.MustCompile(`^[n-zN-Z]`)
	rockKeywords = []string{"rock", "metal", "punk", "摇滚"}
	jazzKeywords = []string{"jazz", "blues", "swing", "爵士"}
)

// ParseCategory 解析分类名；未知分类按 all 处理。
func ParseCategory(name string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(name))) {
	case CategoryChinese:
		return CategoryChinese
	case CategoryEnglish:
		return CategoryEnglish
	case CategoryRock:
		return CategoryRock
	case CategoryJazz:
		return CategoryJazz
	case CategoryAM:
		return CategoryAM
	case CategoryNZ:
		return CategoryNZ
	case CategoryShuffle:
		return CategoryShuffle
	case CategoryDefault:
		return CategoryDefault
	default:
		return CategoryAll
	}
}

// Matches 判断文件名是否属于分类。纯函数，不做任何IO。
// shuffle 和 default 放行全部曲目，shuffle 的额外语义由引擎处理。
func Matches(c Category, filename string) bool {
	lower := strings.ToLower(filename)
	switch c {
	case CategoryChinese:
		return hanPattern.MatchString(filename)
	case CategoryEnglish:
		return !hanPattern.MatchString(filename)
	case CategoryRock:
		return containsAny(lower, rockKeywords)
	case CategoryJazz:
		return containsAny(lower, jazzKeywords)
	case CategoryAM:
		return rangeAM.MatchString(filename)
	case CategoryNZ:
		return rangeNZ.MatchString(filename)
	default:
		// all / shuffle / default
		return true
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
