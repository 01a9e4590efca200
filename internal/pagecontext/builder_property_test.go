package pagecontext

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/site"
	"github.com/ctcl/ctclsite/internal/testutil"
)

const siblingCount = 6

func TestBuilderProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 25
	properties := gopter.NewProperties(parameters)

	properties.Property("link pages never yield a context", prop.ForAll(
		func(id, cat string) bool {
			sb := testutil.NewSiteBuilder(t).
				WithPage(cat, "l"+id, fmt.Sprintf(`{"type":"link","link":"https://example.com/%s","title":"%s"}`, id, id))
			snap, err := site.NewLoader(sb.Build()).Load()
			if err != nil {
				return false
			}
			ctx, err := NewBuilder().Build(snap, cat, "l"+id)
			return ctx == nil && ferrors.IsValidation(err)
		},
		gen.Identifier(),
		gen.OneConstOf("about", "blog", "linklist", "projects", "services"),
	))

	properties.Property("menus resolve in declared order or name the first missing id", prop.ForAll(
		func(picks []int) bool {
			menu := make([]string, len(picks))
			for i, n := range picks {
				menu[i] = fmt.Sprintf("p%d", n) // p0..p5 exist, p6..p7 do not
			}
			raw, _ := json.Marshal(menu)

			sb := testutil.NewSiteBuilder(t).
				WithPage("services", "hub", `{"type":"content","link":"/services","theme":"dark","title":"Hub","content":"home.md","menu":`+string(raw)+`}`)
			for i := range siblingCount {
				sb.WithPage("services", fmt.Sprintf("p%d", i),
					fmt.Sprintf(`{"type":"content","link":"/services/%d","theme":"dark","title":"P%d","content":"home.md"}`, i, i))
			}
			snap, err := site.NewLoader(sb.Build()).Load()
			if err != nil {
				return false
			}

			ctx, err := NewBuilder().Build(snap, "services", "hub")

			firstMissing := ""
			for i, n := range picks {
				if n >= siblingCount {
					firstMissing = menu[i]
					break
				}
			}
			if firstMissing != "" {
				ce, ok := ferrors.AsClassified(err)
				if !ok || !ferrors.IsNotFound(err) {
					return false
				}
				got, _ := ce.Context().GetString("menu_entry")
				return got == firstMissing
			}
			if err != nil {
				return false
			}
			if len(menu) == 0 {
				_, present := ctx[KeyMenu]
				return !present
			}
			items, ok := ctx[KeyMenu].([]MenuItem)
			if !ok || len(items) != len(menu) {
				return false
			}
			for i, item := range items {
				want, _ := snap.Pages("services").Get(menu[i])
				if item.ID != menu[i] || item.Page != want {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(5, gen.IntRange(0, siblingCount+1)),
	))

	properties.TestingRun(t)
}
