package forum

import (
	"Townhall/model"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper escapes LIKE wildcards with '!', which no dialect treats as a string escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// pageOf filters, orders and pages a topic listing.
func pageOf(q model.Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if search := strings.TrimSpace(q.Search); search != "" {
			tx = tx.Where("title LIKE ? ESCAPE '!'", containsPattern(search))
		}

		column := "id"
		desc := false
		if q.Sort == "asc" || q.Sort == "desc" {
			desc = q.Sort == "desc"

			switch q.SortBy {
			case "title", "content":
				column = q.SortBy
			}
		}

		return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}).
			Limit(q.Limit()).
			Offset(q.Offset())
	}
}
