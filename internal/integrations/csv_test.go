package integrations

import (
    "errors"
    "strings"
    "testing"

    "walloc/internal/model"
)

func TestParseWarehouses(t *testing.T) {
    in := "name,address,lat,lng,capacity\n" +
        "Reno, Reno NV ,39.52,-119.81,6000\n" +
        "Boise,Boise ID,43.61,-116.20,4000\n"
    rows, err := ParseWarehouses(strings.NewReader(in))
    if err != nil {
        t.Fatalf("ParseWarehouses: %v", err)
    }
    if len(rows) != 2 {
        t.Fatalf("rows: %d", len(rows))
    }
    if rows[0].Name != "Reno" || rows[0].Address != "Reno NV" || rows[0].Capacity != 6000 {
        t.Fatalf("row 0: %+v", rows[0])
    }
    if rows[1].Location.Lat != 43.61 {
        t.Fatalf("row 1 location: %+v", rows[1].Location)
    }
}

func TestParseWarehousesHeaderCaseInsensitive(t *testing.T) {
    in := "Name,Lat,Lng,Capacity\nReno,39.52,-119.81,6000\n"
    rows, err := ParseWarehouses(strings.NewReader(in))
    if err != nil || len(rows) != 1 {
        t.Fatalf("rows %v err %v", rows, err)
    }
}

func TestParseWarehousesMissingColumn(t *testing.T) {
    _, err := ParseWarehouses(strings.NewReader("name,lat,lng\nReno,39.52,-119.81\n"))
    var perr *ParseError
    if !errors.As(err, &perr) || perr.Line != 1 {
        t.Fatalf("err = %v", err)
    }
}

func TestParseWarehousesBadNumberReportsLine(t *testing.T) {
    in := "name,lat,lng,capacity\nReno,39.52,-119.81,6000\nBoise,oops,-116.20,4000\n"
    _, err := ParseWarehouses(strings.NewReader(in))
    var perr *ParseError
    if !errors.As(err, &perr) {
        t.Fatalf("err = %v", err)
    }
    if perr.Line != 3 {
        t.Fatalf("line = %d, want 3", perr.Line)
    }
}

func TestParseDemand(t *testing.T) {
    in := "product,channel,state,week,units\n32Q21K,Amazon,CA,3,2200\n"
    rows, err := ParseDemand(strings.NewReader(in))
    if err != nil {
        t.Fatalf("ParseDemand: %v", err)
    }
    want := model.DemandRow{Product: "32Q21K", Channel: "Amazon", State: "CA", Week: 3, Units: 2200}
    if len(rows) != 1 || rows[0] != want {
        t.Fatalf("rows: %+v", rows)
    }
}

func TestParseDemandFractionalWeek(t *testing.T) {
    in := "product,channel,state,week,units\n32Q21K,Amazon,CA,3.5,2200\n"
    _, err := ParseDemand(strings.NewReader(in))
    var perr *ParseError
    if !errors.As(err, &perr) {
        t.Fatalf("err = %v", err)
    }
}

func TestParseSchedule(t *testing.T) {
    in := "warehouse,sku,week,direction,quantity\nEL PASO,32Q21K,3,Incoming,200\n"
    rows, err := ParseSchedule(strings.NewReader(in))
    if err != nil {
        t.Fatalf("ParseSchedule: %v", err)
    }
    if rows[0].Direction != model.DirectionIncoming {
        t.Fatalf("direction normalized: %+v", rows[0])
    }
}

func TestParseScheduleBadDirection(t *testing.T) {
    in := "warehouse,sku,week,direction,quantity\nEL PASO,32Q21K,3,sideways,200\n"
    _, err := ParseSchedule(strings.NewReader(in))
    var perr *ParseError
    if !errors.As(err, &perr) || perr.Line != 2 {
        t.Fatalf("err = %v", err)
    }
}

func TestParseEmptyInput(t *testing.T) {
    _, err := ParseDemand(strings.NewReader(""))
    var perr *ParseError
    if !errors.As(err, &perr) {
        t.Fatalf("err = %v", err)
    }
}
