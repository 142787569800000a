package load

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Imsharad/upwork-jobs-agent/internal/domain"
)

// HTML reads a saved search results page. Each element matching
// cardSelector becomes one record.
func HTML(path, cardSelector string) (domain.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawTable{}, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	t, err := ReadHTML(f, cardSelector)
	if err != nil {
		return domain.RawTable{}, &LoadError{Path: path, Err: err}
	}
	zap.S().Named("load").Infof("read %d cards, %d columns from %s", len(t.Records), len(t.Columns), path)
	return t, nil
}

// ReadHTML names columns the way the scraper export does: the first class
// of an element, "<class> <n>" for its n-th repeat inside a card, and
// "<name> href" for link targets.
func ReadHTML(r io.Reader, cardSelector string) (domain.RawTable, error) {
	if cardSelector == "" {
		cardSelector = "article"
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("parse html: %w", err)
	}

	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		return domain.RawTable{}, fmt.Errorf("no elements match %q", cardSelector)
	}

	var columns []string
	known := map[string]bool{}
	addCol := func(name string) {
		if !known[name] {
			known[name] = true
			columns = append(columns, name)
		}
	}

	records := make([]domain.RawRecord, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		rec := domain.RawRecord{}
		counts := map[string]int{}

		card.Find("[class]").Each(func(_ int, el *goquery.Selection) {
			class := firstClass(el)
			if class == "" {
				return
			}
			counts[class]++
			name := class
			if n := counts[class]; n > 1 {
				name = fmt.Sprintf("%s %d", class, n)
			}

			addCol(name)
			if text := CleanText(el.Text()); text != "" {
				rec[name] = text
			}

			if href, ok := el.Attr("href"); ok {
				addCol(name + " href")
				if href = strings.TrimSpace(href); href != "" {
					rec[name+" href"] = href
				}
			}
		})
		records = append(records, rec)
	})

	return domain.RawTable{Columns: columns, Records: records}, nil
}

func firstClass(el *goquery.Selection) string {
	class, _ := el.Attr("class")
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
