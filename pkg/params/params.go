// Package params collects and validates the parameters for a new
// project. Values may arrive as positional arguments; anything missing
// is prompted for, one field at a time, on the supplied reader.
package params

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/launchpad/pkg/errors"
)

// ProjectParameters describes one project to scaffold. All fields are
// immutable once collected. Name doubles as the target directory name
// and the remote repository name; Domain is a bare hostname.
type ProjectParameters struct {
	Name   string
	Domain string
	Title  string

	// Price is the fixed amount in major currency units (dollars).
	// nil means the payment link lets the customer choose the amount.
	Price *float64
}

// Options controls how missing fields are gathered.
type Options struct {
	// Input supplies prompt answers, one per line.
	Input io.Reader

	// Output receives prompt text.
	Output io.Writer

	// Price carries an already-known fixed price (e.g. from a flag).
	Price *float64

	// PromptPrice asks for a price after the mandatory fields when no
	// fixed price was supplied. An empty answer keeps the amount open.
	PromptPrice bool
}

// Collect fills ProjectParameters from positional args (name, domain,
// title, in that order) and interactive prompts for whatever is
// missing. There is no retry on bad input: an empty mandatory field or
// an unparseable price is a terminal INVALID_PARAMS error.
func Collect(args []string, opts Options) (*ProjectParameters, error) {
	reader := bufio.NewReader(opts.Input)

	p := &ProjectParameters{}
	if len(args) > 0 {
		p.Name = strings.TrimSpace(args[0])
	}
	if len(args) > 1 {
		p.Domain = strings.TrimSpace(args[1])
	}
	if len(args) > 2 {
		p.Title = strings.TrimSpace(args[2])
	}

	var err error
	if p.Name == "" {
		if p.Name, err = prompt(reader, opts.Output, "Project name"); err != nil {
			return nil, err
		}
	}
	if p.Domain == "" {
		if p.Domain, err = prompt(reader, opts.Output, "Domain (e.g. myapp.example.com)"); err != nil {
			return nil, err
		}
	}
	if p.Title == "" {
		if p.Title, err = prompt(reader, opts.Output, "Product title"); err != nil {
			return nil, err
		}
	}

	if p.Name == "" || p.Domain == "" || p.Title == "" {
		return nil, errors.New(errors.ErrInvalidParams, "name, domain, and title are all required")
	}
	if strings.Contains(p.Domain, "://") || strings.Contains(p.Domain, "/") {
		return nil, errors.Newf(errors.ErrInvalidParams, "domain %q must be a bare hostname without scheme or path", p.Domain)
	}

	switch {
	case opts.Price != nil:
		p.Price = opts.Price
	case opts.PromptPrice:
		answer, err := prompt(reader, opts.Output, "Price in USD (empty for customer-chosen amount)")
		if err != nil {
			return nil, err
		}
		if answer != "" {
			price, err := parsePrice(answer)
			if err != nil {
				return nil, err
			}
			p.Price = price
		}
	}

	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func prompt(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return "", nil
		}
		return "", errors.Wrap(err, errors.ErrInvalidParams, "reading input failed")
	}
	return strings.TrimSpace(line), nil
}

func parsePrice(raw string) (*float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.Newf(errors.ErrInvalidParams, "price %q is not a number", raw)
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	return &price, nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return errors.Newf(errors.ErrInvalidParams, "price %v must be a positive amount", price)
	}
	return nil
}
