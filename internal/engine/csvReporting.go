package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"papertrader/types"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var orderScriptHeader = []string{"tick", "side", "symbol", "quantity"}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteHistoryCSVFile writes transactions to a CSV file at the given path.
func WriteHistoryCSVFile(path string, txs []types.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	defer f.Close()

	return WriteHistoryCSV(f, txs)
}

// WriteHistoryCSV writes transactions to any io.Writer as CSV, in the order given.
func WriteHistoryCSV(w io.Writer, txs []types.Transaction) error {
	cw := csv.NewWriter(w)

	header := []string{
		"id",
		"time", // RFC3339
		"type",
		"symbol",
		"quantity",
		"price",
		"total",
		"realized_pl",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			strconv.FormatInt(tx.ID, 10),
			tx.Time.Format(time.RFC3339),
			string(tx.Side),
			tx.Symbol,
			strconv.FormatInt(tx.Quantity, 10),
			tx.FillPrice.String(),
			tx.Total.String(),
			tx.RealizedPL.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadOrderScriptFile reads an order script from path.
func ReadOrderScriptFile(path string) ([]ScheduledOrder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open order script: %w", err)
	}
	defer f.Close()

	return ReadOrderScript(f)
}

// ReadOrderScript parses "tick,side,symbol,quantity" rows. A quantity that is
// not a whole number is read as 0 and left for the ledger to reject.
func ReadOrderScript(r io.Reader) ([]ScheduledOrder, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(orderScriptHeader)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range orderScriptHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return nil, fmt.Errorf("unexpected header %v, want %v", header, orderScriptHeader)
		}
	}

	var orders []ScheduledOrder
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		order, err := parseScheduledOrder(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func parseScheduledOrder(record []string) (ScheduledOrder, error) {
	tick, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return ScheduledOrder{}, fmt.Errorf("tick: %w", err)
	}
	side, err := types.ParseSide(record[1])
	if err != nil {
		return ScheduledOrder{}, err
	}
	quantity, err := types.ParseQuantity(record[3])
	if err != nil {
		quantity = 0
	}

	order := ScheduledOrder{
		Tick:     tick,
		Side:     side,
		Symbol:   strings.ToUpper(strings.TrimSpace(record[2])),
		Quantity: quantity,
	}
	if err := validate.Struct(order); err != nil {
		return ScheduledOrder{}, err
	}
	return order, nil
}
