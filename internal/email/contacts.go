package email

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/freightdesk/podrec/internal/common"
)

// LoadContacts reads a business contacts workbook. Expected headers:
// "Business Name", "Contact Email", "Contact Name". Rows without a business
// name are skipped.
func LoadContacts(path string) (map[string]Contact, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewAppError("CONTACTS_ERROR", "open contacts: "+path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewAppError("CONTACTS_ERROR", "contacts workbook has no sheets", common.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, common.NewAppError("CONTACTS_ERROR", "read contacts rows", err)
	}
	if len(rows) == 0 {
		return map[string]Contact{}, nil
	}

	businessCol, emailCol, nameCol := -1, -1, -1
	for i, h := range rows[0] {
		switch strings.TrimSpace(h) {
		case "Business Name":
			businessCol = i
		case "Contact Email":
			emailCol = i
		case "Contact Name":
			nameCol = i
		}
	}
	if businessCol < 0 {
		return nil, common.NewAppError("CONTACTS_ERROR", `missing "Business Name" column`, common.ErrInvalidInput)
	}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	contacts := make(map[string]Contact)
	for _, row := range rows[1:] {
		business := cell(row, businessCol)
		if business == "" {
			continue
		}
		c := Contact{
			Email: cell(row, emailCol),
			Name:  cell(row, nameCol),
		}
		if c.Name == "" {
			c.Name = "Team"
		}
		contacts[business] = c
	}
	return contacts, nil
}
