package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raflibima25/go-electroshop/internal/cli/cartsync"
	"github.com/raflibima25/go-electroshop/internal/cli/client"
)

type item struct {
	Name  string  `json:"name" yaml:"name"`
	Price float64 `json:"price" yaml:"price"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable)

	table := &Table{Header: []string{"ID", "NAME"}}
	table.AddRow(1, "Phone")
	table.AddRow(12, "Laptop")

	if err := p.Print(nil, table); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "ID  NAME\n──  ────\n1   Phone\n12  Laptop\n"
	if buf.String() != want {
		t.Errorf("table output =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)

	if err := p.Print([]item{{Name: "Phone", Price: 9.5}}, nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	p.Println("ignored")

	want := "[\n  {\n    \"name\": \"Phone\",\n    \"price\": 9.5\n  }\n]\n"
	if buf.String() != want {
		t.Errorf("json output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)

	if err := p.Print(item{Name: "Phone", Price: 9.5}, nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "name: Phone\nprice: 9.5\n"
	if buf.String() != want {
		t.Errorf("yaml output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_YAMLUsesWireNames(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatYAML)

	cart := client.Cart{
		Items: []client.CartItem{{
			ID:       7,
			Quantity: 2,
			Product:  client.Product{ID: 1, Name: "Galaxy S24", ImageLink: "https://img.example/s24.png"},
		}},
		TotalItems: 2,
		TotalPrice: 25998000,
	}
	if err := p.Print(cart, nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	out := buf.String()
	for _, key := range []string{"total_items:", "total_price:", "image_link:", "created_at:"} {
		if !strings.Contains(out, key) {
			t.Errorf("yaml output missing %q:\n%s", key, out)
		}
	}
	for _, key := range []string{"totalitems:", "imagelink:"} {
		if strings.Contains(out, key) {
			t.Errorf("yaml output has Go field name %q:\n%s", key, out)
		}
	}

	buf.Reset()
	if err := p.Print([]cartsync.Entry{{ProductID: 3, Quantity: 1}}, nil); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	out = buf.String()
	if !strings.Contains(out, "product_id: 3") || !strings.Contains(out, "quantity: 1") {
		t.Errorf("yaml output = %q, want product_id and quantity keys", out)
	}
	if strings.HasPrefix(out, "- id:") || strings.Contains(out, " id:") {
		t.Errorf("yaml output = %q, zero id should be omitted", out)
	}
}
