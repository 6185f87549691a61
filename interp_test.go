package strand

import (
	"errors"
	"reflect"
	"testing"
)

type profile struct {
	Slug string
	Nick *string `fallback:"anon"`
}

type account struct {
	Name    string
	Age     int
	Profile profile
	Link    *profile `fallback:"nobody"`
}

func (a account) Greeting() string { return "hi " + a.Name }

func (a *account) Loud() string { return a.Name + "!" }

func resolveTemplate(t *testing.T, src string, v any) (string, error) {
	t.Helper()
	tmpl, err := parseTemplate(src)
	if err != nil {
		t.Fatalf("parseTemplate(%q): %v", src, err)
	}
	if err := tmpl.bind(reflect.TypeOf(v)); err != nil {
		return "", err
	}
	return tmpl.resolve(reflect.ValueOf(v))
}

func TestTemplateResolve(t *testing.T) {
	withLink := account{Name: "ada", Age: 36, Profile: profile{Slug: "ada"}}
	withLink.Link = &profile{Slug: "grace"}

	tests := []struct {
		name string
		src  string
		v    any
		want string
	}{
		{"literal only", "plain text", withLink, "plain text"},
		{"single field", "{Name}", withLink, "ada"},
		{"int field", "age {Age}", withLink, "age 36"},
		{"nested path", "/users/{Profile.Slug}", withLink, "/users/ada"},
		{"through pointer", "{Link.Slug}", withLink, "grace"},
		{"value method", "{Greeting}", withLink, "hi ada"},
		{"pointer method", "{Loud}", withLink, "ada!"},
		{"mixed", "{Name} is {Age}", withLink, "ada is 36"},
		{"brace literals", "{{{Name}}}", withLink, "{ada}"},
		{"lone close brace", "a}b", withLink, "a}b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTemplate(t, tt.src, tt.v)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateFallbacks(t *testing.T) {
	bare := account{Name: "ada"}

	t.Run("nil path uses fallback tag", func(t *testing.T) {
		got, err := resolveTemplate(t, "{Link.Slug}", bare)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != "nobody" {
			t.Errorf("got %q, want %q", got, "nobody")
		}
	})

	t.Run("nil leaf uses its own fallback", func(t *testing.T) {
		got, err := resolveTemplate(t, "{Profile.Nick}", bare)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != "anon" {
			t.Errorf("got %q, want %q", got, "anon")
		}
	})

	t.Run("fallback belongs to the nil step", func(t *testing.T) {
		// Link and Nick both declare fallbacks; which one renders depends
		// on where the nil was crossed.
		got, err := resolveTemplate(t, "{Link.Nick}", bare)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != "nobody" {
			t.Errorf("nil Link: got %q, want %q", got, "nobody")
		}

		linked := bare
		linked.Link = &profile{Slug: "grace"}
		got, err = resolveTemplate(t, "{Link.Nick}", linked)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != "anon" {
			t.Errorf("nil Nick: got %q, want %q", got, "anon")
		}
	})
}

func TestTemplateBindErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", "{Missing}"},
		{"unknown nested field", "{Profile.Missing}"},
		{"unknown method", "{GetName}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolveTemplate(t, tt.src, account{}); !errors.Is(err, ErrUnknownField) {
				t.Errorf("bind(%q) = %v, want ErrUnknownField", tt.src, err)
			}
		})
	}
}

func TestParseTemplateErrors(t *testing.T) {
	for _, src := range []string{"{Name", "{}", "a {Broken"} {
		if _, err := parseTemplate(src); !errors.Is(err, ErrBadTag) {
			t.Errorf("parseTemplate(%q) = %v, want ErrBadTag", src, err)
		}
	}
}
