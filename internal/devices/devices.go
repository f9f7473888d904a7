// Package devices holds the table of supported USB mixers and derives the
// udev artifacts from it: the rules file granting device access and the
// trigger commands that re-apply the rules to already-connected devices.
package devices

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/socratools/socranop/internal/messages"
)

//go:embed devices.toml
var tableTOML []byte

// Product is one supported mixer model.
type Product struct {
	ID   uint16 `toml:"id"`
	Name string `toml:"name"`
}

// Table lists the supported devices of one USB vendor.
type Table struct {
	VendorID uint16    `toml:"vendor-id"`
	Products []Product `toml:"product"`
}

// Load parses the bundled device table.
func Load() (Table, error) {
	var t Table
	if err := toml.Unmarshal(tableTOML, &t); err != nil {
		return Table{}, fmt.Errorf(messages.DevicesParseErrFmt, err)
	}
	if len(t.Products) == 0 {
		return Table{}, errors.New(messages.DevicesEmptyTable)
	}
	return t, nil
}

// UdevRules returns the content of the udev rules file: one uaccess rule
// per supported product id.
func (t Table) UdevRules() string {
	var b strings.Builder
	b.WriteString("# Soundcraft Notepad series mixers with audio routing controlled by USB\n")
	for _, p := range t.Products {
		fmt.Fprintf(&b,
			"ACTION==\"add\", SUBSYSTEM==\"usb\", ATTRS{idVendor}==\"%04x\", ATTRS{idProduct}==\"%04x\", TAG+=\"uaccess\"\n",
			t.VendorID, p.ID)
	}
	return b.String()
}

// TriggerCommands returns the shell block that makes udev re-run the add
// rules for mixers that are already plugged in. The sleep gives udev time
// to pick up a freshly installed rules file.
func (t Table) TriggerCommands() string {
	ids := make([]string, 0, len(t.Products))
	for _, p := range t.Products {
		ids = append(ids, fmt.Sprintf("%04x", p.ID))
	}
	return fmt.Sprintf(`sleep 4   # wait until udev should have noticed the new rules
for product_id in %s
do
    udevadm trigger --verbose \
        --action=add --subsystem-match=usb \
        --attr-match=idVendor=%04x --attr-match=idProduct=${product_id}
done`, strings.Join(ids, " "), t.VendorID)
}
