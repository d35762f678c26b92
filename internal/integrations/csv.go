package integrations

import (
    "encoding/csv"
    "fmt"
    "io"
    "strconv"
    "strings"

    "walloc/internal/model"
)

// ParseError reports the row and column that broke a dataset import.
type ParseError struct {
    Line int
    Msg  string
}

func (e *ParseError) Error() string {
    return fmt.Sprintf("csv line %d: %s", e.Line, e.Msg)
}

func parseErrf(line int, format string, args ...any) error {
    return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// readAll reads a headered CSV and returns records keyed by column name.
// Header names are case-insensitive.
func readAll(r io.Reader, required []string) ([]map[string]string, error) {
    cr := csv.NewReader(r)
    cr.TrimLeadingSpace = true
    header, err := cr.Read()
    if err != nil {
        return nil, parseErrf(1, "missing header row: %v", err)
    }
    idx := map[string]int{}
    for i, h := range header {
        idx[strings.ToLower(strings.TrimSpace(h))] = i
    }
    for _, col := range required {
        if _, ok := idx[col]; !ok {
            return nil, parseErrf(1, "missing column %q", col)
        }
    }
    var out []map[string]string
    line := 1
    for {
        rec, err := cr.Read()
        line++
        if err == io.EOF {
            break
        }
        if err != nil {
            return nil, parseErrf(line, "%v", err)
        }
        row := map[string]string{}
        for name, i := range idx {
            if i < len(rec) {
                row[name] = strings.TrimSpace(rec[i])
            }
        }
        row["__line"] = strconv.Itoa(line)
        out = append(out, row)
    }
    return out, nil
}

func rowFloat(row map[string]string, col string) (float64, error) {
    line, _ := strconv.Atoi(row["__line"])
    f, err := strconv.ParseFloat(row[col], 64)
    if err != nil {
        return 0, parseErrf(line, "column %q: %q is not a number", col, row[col])
    }
    return f, nil
}

func rowInt(row map[string]string, col string) (int, error) {
    line, _ := strconv.Atoi(row["__line"])
    n, err := strconv.Atoi(row[col])
    if err != nil {
        return 0, parseErrf(line, "column %q: %q is not an integer", col, row[col])
    }
    return n, nil
}

// ParseWarehouses reads name,address,lat,lng,capacity rows.
func ParseWarehouses(r io.Reader) ([]model.Warehouse, error) {
    rows, err := readAll(r, []string{"name", "lat", "lng", "capacity"})
    if err != nil {
        return nil, err
    }
    var out []model.Warehouse
    for _, row := range rows {
        lat, err := rowFloat(row, "lat")
        if err != nil {
            return nil, err
        }
        lng, err := rowFloat(row, "lng")
        if err != nil {
            return nil, err
        }
        capacity, err := rowFloat(row, "capacity")
        if err != nil {
            return nil, err
        }
        out = append(out, model.Warehouse{
            Name:     row["name"],
            Address:  row["address"],
            Location: model.GeoPoint{Lat: lat, Lng: lng},
            Capacity: capacity,
        })
    }
    return out, nil
}

// ParseDemand reads product,channel,state,week,units rows.
func ParseDemand(r io.Reader) ([]model.DemandRow, error) {
    rows, err := readAll(r, []string{"product", "channel", "state", "week", "units"})
    if err != nil {
        return nil, err
    }
    var out []model.DemandRow
    for _, row := range rows {
        week, err := rowInt(row, "week")
        if err != nil {
            return nil, err
        }
        units, err := rowFloat(row, "units")
        if err != nil {
            return nil, err
        }
        out = append(out, model.DemandRow{
            Product: row["product"],
            Channel: row["channel"],
            State:   row["state"],
            Week:    week,
            Units:   units,
        })
    }
    return out, nil
}

// ParseSchedule reads warehouse,sku,week,direction,quantity rows.
func ParseSchedule(r io.Reader) ([]model.ScheduleEntry, error) {
    rows, err := readAll(r, []string{"warehouse", "sku", "week", "direction", "quantity"})
    if err != nil {
        return nil, err
    }
    var out []model.ScheduleEntry
    for _, row := range rows {
        week, err := rowInt(row, "week")
        if err != nil {
            return nil, err
        }
        qty, err := rowFloat(row, "quantity")
        if err != nil {
            return nil, err
        }
        dir := strings.ToLower(row["direction"])
        if dir != model.DirectionIncoming && dir != model.DirectionOutgoing {
            line, _ := strconv.Atoi(row["__line"])
            return nil, parseErrf(line, "direction must be incoming or outgoing, got %q", row["direction"])
        }
        out = append(out, model.ScheduleEntry{
            Warehouse: row["warehouse"],
            SKU:       row["sku"],
            Week:      week,
            Direction: dir,
            Quantity:  qty,
        })
    }
    return out, nil
}
