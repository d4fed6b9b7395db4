// Package shoppinglist renders the aggregated shopping list as the plain
// text document users download. It performs no queries: callers hand it the
// already aggregated totals and the cart recipes.
package shoppinglist

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/annashamitova/foodgram-st/internal/models"
	"github.com/annashamitova/foodgram-st/internal/repositories"
)

// Filename is the attachment name of the generated document.
const Filename = "shopping_list.txt"

// Build assembles the document: a timestamped header, the numbered
// ingredient table, then every cart recipe with its author.
func Build(now time.Time, totals []repositories.IngredientTotal, recipes []models.Recipe) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Shopping list (generated: %s)\n", now.Format("02.01.2006 15:04"))
	b.WriteString("# | Product | Amount | Unit\n")
	for i, item := range totals {
		fmt.Fprintf(&b, "%d | %s | %d | %s\n", i+1, capitalize(item.Name), item.TotalAmount, item.MeasurementUnit)
	}

	b.WriteString("\nUsed in recipes:\n")
	for _, recipe := range recipes {
		author := ""
		if recipe.Author != nil {
			author = recipe.Author.DisplayName()
		}
		fmt.Fprintf(&b, "- %s (author: %s)\n", recipe.Name, author)
	}

	return b.String()
}

// capitalize upper-cases the first rune and lower-cases the rest, matching
// how ingredient names are listed regardless of how they were stored.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
