package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			"keeps allowed with values",
			[]string{"-a", ":8080", "-x", "junk", "-d", "authn.db"},
			[]string{"-a", "-d"},
			[]string{"-a", ":8080", "-d", "authn.db"},
		},
		{
			"equals form",
			[]string{"-a=:8080", "-x=junk"},
			[]string{"-a"},
			[]string{"-a=:8080"},
		},
		{
			"flag without value",
			[]string{"-v", "-a", ":8080"},
			[]string{"-v"},
			[]string{"-v"},
		},
		{
			"empty",
			nil,
			[]string{"-a"},
			[]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestStripArgs(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		args  []string
		flags []string
		want  []string
	}{
		{
			"removes flags keeps positionals",
			[]string{"-a", "/tmp/authn.sock", "login", "alice", "60"},
			[]string{"-a"},
			[]string{"login", "alice", "60"},
		},
		{
			"equals form",
			[]string{"-d=authn.db", "add-user", "bob"},
			[]string{"-d"},
			[]string{"add-user", "bob"},
		},
		{
			"unknown flags survive",
			[]string{"-x", "revoke", "alice"},
			[]string{"-a"},
			[]string{"-x", "revoke", "alice"},
		},
		{
			"all stripped",
			[]string{"-a", ":8080"},
			[]string{"-a"},
			[]string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripArgs(tc.args, tc.flags))
		})
	}
}
