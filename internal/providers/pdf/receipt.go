package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PayoutLine struct {
	VendorName  string
	PaymentType string
	VisitStatus string
	PaidDate    string
	Amount      int64
}

type PayoutReceiptData struct {
	AgentName   string
	AgentID     string
	PeriodFrom  string
	PeriodTo    string
	GeneratedAt string
	GeneratedBy string
	Lines       []PayoutLine
	Total       int64
}

func (p *marotoProvider) GeneratePayoutReceipt(ctx context.Context, data PayoutReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, "Agent Payout Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New("Agent: "+data.AgentName, props.Text{Style: fontstyle.Bold}),
			text.New("Agent ID: "+data.AgentID, props.Text{Top: 5}),
		),
		col.New(6).Add(
			text.New("Period: "+data.PeriodFrom+" to "+data.PeriodTo, props.Text{}),
			text.New("Generated: "+data.GeneratedAt, props.Text{Top: 5}),
			text.New("Generated by: "+data.GeneratedBy, props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Vendor", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Type", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Paid on", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range data.Lines {
		m.AddRow(12,
			text.NewCol(4, line.VendorName, props.Text{Size: 9}),
			text.NewCol(3, line.PaymentType, props.Text{Size: 9}),
			text.NewCol(3, line.PaidDate, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 10, Style: fontstyle.Bold}),
		text.NewCol(2, fmt.Sprintf("%d", data.Total), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
