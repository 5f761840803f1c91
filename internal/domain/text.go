package domain

import "strings"

// ParseTechnologies 逗号分隔，去空白，丢弃空项
func ParseTechnologies(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Truncate 按字符（rune）截断
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func RuneLen(s string) int { return len([]rune(s)) }
