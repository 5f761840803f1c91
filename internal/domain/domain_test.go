package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name string
		u    User
		want string
	}{
		{"full name", User{FirstName: "Ada", LastName: "Lovelace", Email: strptr("ada@x.io")}, "Ada Lovelace"},
		{"first only", User{FirstName: "Ada"}, "Ada"},
		{"last only falls back to email", User{LastName: "L", Email: strptr("ada@x.io")}, "ada"},
		{"email local part", User{Email: strptr("grace@navy.mil")}, "grace"},
		{"nothing", User{}, "Anonymous User"},
		{"blank names", User{FirstName: "  ", LastName: " "}, "Anonymous User"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.u.DisplayName())
		})
	}
}

func TestAccountVariant(t *testing.T) {
	local := &User{ID: "u1", Email: strptr("a@b.c"), PasswordHash: "h", AuthType: AuthLocal}
	acc, ok := local.Account().(LocalAccount)
	assert.True(t, ok)
	assert.Equal(t, "a@b.c", acc.Email)

	ext := &User{ID: "u2", AuthType: AuthExternal, Provider: "replit", ExternalID: "42", IsAdmin: true}
	eacc, ok := ext.Account().(ExternalAccount)
	assert.True(t, ok)
	assert.Equal(t, "42", eacc.ExternalID)

	id := ext.Identity()
	assert.Equal(t, Identity{ID: "u2", DisplayName: "Anonymous User", IsAdmin: true}, id)
	assert.Equal(t, RoleAdmin, ext.Role())
	assert.Equal(t, RoleUser, local.Role())
}

func TestParseTechnologies(t *testing.T) {
	assert.Equal(t, []string{"Go", "Python", "SQL"}, ParseTechnologies(" Go, Python ,, SQL ,"))
	assert.Equal(t, []string{}, ParseTechnologies(""))
	assert.Equal(t, []string{}, ParseTechnologies(" , "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "çã", Truncate("çãõ", 2))
}

func TestViewer(t *testing.T) {
	anon := Anonymous()
	assert.False(t, anon.Authenticated())
	assert.True(t, anon.CanSee(true))
	assert.False(t, anon.CanSee(false))
	assert.True(t, Viewer{UserID: "x", IsAdmin: true}.CanSee(false))
}
