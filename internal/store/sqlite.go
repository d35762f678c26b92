package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/jmoiron/sqlx"
    _ "github.com/mattn/go-sqlite3"

    "walloc/internal/model"
)

// SQLite persists the dataset to a local file, selected via SQLITE_PATH.
type SQLite struct {
    db *sqlx.DB
}

func NewSQLite(path string) (*SQLite, error) {
    db, err := sqlx.Connect("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
    if err != nil {
        return nil, err
    }
    s := &SQLite{db: db}
    if err := s.ensureSchema(); err != nil {
        db.Close()
        return nil, err
    }
    return s, nil
}

// NewSQLiteSeeded opens the file and loads the default dataset when the
// warehouse table is empty.
func NewSQLiteSeeded(path string) (*SQLite, error) {
    s, err := NewSQLite(path)
    if err != nil {
        return nil, err
    }
    var n int
    if err := s.db.Get(&n, `SELECT COUNT(*) FROM warehouses`); err != nil {
        return nil, err
    }
    if n == 0 {
        if err := s.Load(context.Background(), SeedDataset()); err != nil {
            return nil, err
        }
    }
    return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) ensureSchema() error {
    _, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS warehouses (
    name TEXT PRIMARY KEY, address TEXT, lat REAL, lng REAL, capacity REAL
);
CREATE TABLE IF NOT EXISTS distribution_centers (
    channel TEXT, state TEXT, address TEXT, lat REAL, lng REAL,
    PRIMARY KEY (channel, state)
);
CREATE TABLE IF NOT EXISTS skus (
    code TEXT PRIMARY KEY, name TEXT, length_in REAL, width_in REAL,
    height_in REAL, weight_lb REAL, unit_type TEXT
);
CREATE TABLE IF NOT EXISTS carriers (
    name TEXT, mode TEXT, description TEXT, tiers TEXT,
    PRIMARY KEY (name, mode)
);
CREATE TABLE IF NOT EXISTS vehicles (
    name TEXT PRIMARY KEY, length_in REAL, width_in REAL, height_in REAL,
    max_weight_lb REAL, description TEXT
);
CREATE TABLE IF NOT EXISTS snapshots (
    warehouse TEXT, sku TEXT, week INTEGER, quantity REAL
);
CREATE TABLE IF NOT EXISTS schedule (
    warehouse TEXT, sku TEXT, week INTEGER, direction TEXT, quantity REAL
);
CREATE TABLE IF NOT EXISTS demand_forecast (
    product TEXT, channel TEXT, state TEXT, week INTEGER, units REAL
);
CREATE TABLE IF NOT EXISTS customer_plan (
    product TEXT, warehouse TEXT, channel TEXT, state TEXT, week INTEGER, units REAL
);
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1), body TEXT
);
CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY, created_at TEXT, body TEXT
);`)
    return err
}

// Load replaces every record table with the dataset in one transaction.
func (s *SQLite) Load(ctx context.Context, ds Dataset) error {
    if err := s.PutWarehouses(ctx, ds.Warehouses); err != nil {
        return err
    }
    if err := s.PutDistributionCenters(ctx, ds.DistributionCenters); err != nil {
        return err
    }
    if err := s.PutSKUs(ctx, ds.SKUs); err != nil {
        return err
    }
    if err := s.PutCarriers(ctx, ds.Carriers); err != nil {
        return err
    }
    if err := s.PutVehicles(ctx, ds.Vehicles); err != nil {
        return err
    }
    if err := s.PutSnapshots(ctx, ds.Snapshots); err != nil {
        return err
    }
    if err := s.PutSchedule(ctx, ds.Schedule); err != nil {
        return err
    }
    if err := s.PutDemandForecast(ctx, ds.Demand); err != nil {
        return err
    }
    if err := s.PutCustomerPlan(ctx, ds.CustomerPlan); err != nil {
        return err
    }
    return s.SaveSettings(ctx, ds.Settings)
}

// replace swaps the full contents of a record table. The dataset tables are
// small enough that delete-and-insert beats diffing.
func (s *SQLite) replace(ctx context.Context, table string, run func(tx *sqlx.Tx) error) error {
    tx, err := s.db.BeginTxx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()
    if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
        return err
    }
    if err := run(tx); err != nil {
        return err
    }
    return tx.Commit()
}

func (s *SQLite) Warehouses(ctx context.Context) ([]model.Warehouse, error) {
    var rows []struct {
        Name     string  `db:"name"`
        Address  string  `db:"address"`
        Lat      float64 `db:"lat"`
        Lng      float64 `db:"lng"`
        Capacity float64 `db:"capacity"`
    }
    if err := s.db.SelectContext(ctx, &rows, `SELECT name, address, lat, lng, capacity FROM warehouses ORDER BY name`); err != nil {
        return nil, err
    }
    out := make([]model.Warehouse, 0, len(rows))
    for _, r := range rows {
        out = append(out, model.Warehouse{
            Name: r.Name, Address: r.Address,
            Location: model.GeoPoint{Lat: r.Lat, Lng: r.Lng},
            Capacity: r.Capacity,
        })
    }
    return out, nil
}

func (s *SQLite) PutWarehouses(ctx context.Context, rows []model.Warehouse) error {
    return s.replace(ctx, "warehouses", func(tx *sqlx.Tx) error {
        for _, w := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO warehouses (name, address, lat, lng, capacity) VALUES (?, ?, ?, ?, ?)`,
                w.Name, w.Address, w.Location.Lat, w.Location.Lng, w.Capacity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) DistributionCenters(ctx context.Context) ([]model.DistributionCenter, error) {
    var rows []struct {
        Channel string  `db:"channel"`
        State   string  `db:"state"`
        Address string  `db:"address"`
        Lat     float64 `db:"lat"`
        Lng     float64 `db:"lng"`
    }
    if err := s.db.SelectContext(ctx, &rows, `SELECT channel, state, address, lat, lng FROM distribution_centers ORDER BY channel, state`); err != nil {
        return nil, err
    }
    out := make([]model.DistributionCenter, 0, len(rows))
    for _, r := range rows {
        out = append(out, model.DistributionCenter{
            Channel: r.Channel, State: r.State, Address: r.Address,
            Location: model.GeoPoint{Lat: r.Lat, Lng: r.Lng},
        })
    }
    return out, nil
}

func (s *SQLite) PutDistributionCenters(ctx context.Context, rows []model.DistributionCenter) error {
    return s.replace(ctx, "distribution_centers", func(tx *sqlx.Tx) error {
        for _, d := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO distribution_centers (channel, state, address, lat, lng) VALUES (?, ?, ?, ?, ?)`,
                d.Channel, d.State, d.Address, d.Location.Lat, d.Location.Lng); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) SKUs(ctx context.Context) ([]model.SKU, error) {
    var out []model.SKU
    err := s.db.SelectContext(ctx, &out,
        `SELECT code, name, length_in AS lengthin, width_in AS widthin, height_in AS heightin,
                weight_lb AS weightlb, unit_type AS unittype
         FROM skus ORDER BY code`)
    return out, err
}

func (s *SQLite) PutSKUs(ctx context.Context, rows []model.SKU) error {
    return s.replace(ctx, "skus", func(tx *sqlx.Tx) error {
        for _, k := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO skus (code, name, length_in, width_in, height_in, weight_lb, unit_type) VALUES (?, ?, ?, ?, ?, ?, ?)`,
                k.Code, k.Name, k.LengthIn, k.WidthIn, k.HeightIn, k.WeightLb, k.UnitType); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) Carriers(ctx context.Context) ([]model.Carrier, error) {
    var rows []struct {
        Name        string `db:"name"`
        Mode        string `db:"mode"`
        Description string `db:"description"`
        Tiers       string `db:"tiers"`
    }
    if err := s.db.SelectContext(ctx, &rows, `SELECT name, mode, description, tiers FROM carriers ORDER BY name, mode`); err != nil {
        return nil, err
    }
    out := make([]model.Carrier, 0, len(rows))
    for _, r := range rows {
        c := model.Carrier{Name: r.Name, Mode: r.Mode, Description: r.Description}
        if r.Tiers != "" {
            if err := json.Unmarshal([]byte(r.Tiers), &c.Tiers); err != nil {
                return nil, fmt.Errorf("carrier %s/%s: bad tier payload: %w", r.Name, r.Mode, err)
            }
        }
        out = append(out, c)
    }
    return out, nil
}

func (s *SQLite) PutCarriers(ctx context.Context, rows []model.Carrier) error {
    return s.replace(ctx, "carriers", func(tx *sqlx.Tx) error {
        for _, c := range rows {
            tiers, err := json.Marshal(c.Tiers)
            if err != nil {
                return err
            }
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO carriers (name, mode, description, tiers) VALUES (?, ?, ?, ?)`,
                c.Name, c.Mode, c.Description, string(tiers)); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
    var out []model.Vehicle
    err := s.db.SelectContext(ctx, &out,
        `SELECT name, length_in AS lengthin, width_in AS widthin, height_in AS heightin,
                max_weight_lb AS maxweightlb, description
         FROM vehicles ORDER BY name`)
    return out, err
}

func (s *SQLite) PutVehicles(ctx context.Context, rows []model.Vehicle) error {
    return s.replace(ctx, "vehicles", func(tx *sqlx.Tx) error {
        for _, v := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO vehicles (name, length_in, width_in, height_in, max_weight_lb, description) VALUES (?, ?, ?, ?, ?, ?)`,
                v.Name, v.LengthIn, v.WidthIn, v.HeightIn, v.MaxWeightLb, v.Description); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) Snapshots(ctx context.Context) ([]model.InventorySnapshot, error) {
    var out []model.InventorySnapshot
    err := s.db.SelectContext(ctx, &out,
        `SELECT warehouse, sku, week, quantity FROM snapshots ORDER BY warehouse, sku, week`)
    return out, err
}

func (s *SQLite) PutSnapshots(ctx context.Context, rows []model.InventorySnapshot) error {
    return s.replace(ctx, "snapshots", func(tx *sqlx.Tx) error {
        for _, r := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO snapshots (warehouse, sku, week, quantity) VALUES (?, ?, ?, ?)`,
                r.Warehouse, r.SKU, r.Week, r.Quantity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) Schedule(ctx context.Context) ([]model.ScheduleEntry, error) {
    var out []model.ScheduleEntry
    err := s.db.SelectContext(ctx, &out,
        `SELECT warehouse, sku, week, direction, quantity FROM schedule ORDER BY warehouse, sku, week, direction`)
    return out, err
}

func (s *SQLite) PutSchedule(ctx context.Context, rows []model.ScheduleEntry) error {
    return s.replace(ctx, "schedule", func(tx *sqlx.Tx) error {
        for _, r := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO schedule (warehouse, sku, week, direction, quantity) VALUES (?, ?, ?, ?, ?)`,
                r.Warehouse, r.SKU, r.Week, r.Direction, r.Quantity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) DemandForecast(ctx context.Context) ([]model.DemandRow, error) {
    var out []model.DemandRow
    err := s.db.SelectContext(ctx, &out,
        `SELECT product, channel, state, week, units FROM demand_forecast ORDER BY product, channel, state, week`)
    return out, err
}

func (s *SQLite) PutDemandForecast(ctx context.Context, rows []model.DemandRow) error {
    return s.replace(ctx, "demand_forecast", func(tx *sqlx.Tx) error {
        for _, r := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO demand_forecast (product, channel, state, week, units) VALUES (?, ?, ?, ?, ?)`,
                r.Product, r.Channel, r.State, r.Week, r.Units); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) CustomerPlan(ctx context.Context) ([]model.CustomerPlanRow, error) {
    var out []model.CustomerPlanRow
    err := s.db.SelectContext(ctx, &out,
        `SELECT product, warehouse, channel, state, week, units FROM customer_plan ORDER BY product, warehouse, channel, state, week`)
    return out, err
}

func (s *SQLite) PutCustomerPlan(ctx context.Context, rows []model.CustomerPlanRow) error {
    return s.replace(ctx, "customer_plan", func(tx *sqlx.Tx) error {
        for _, r := range rows {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO customer_plan (product, warehouse, channel, state, week, units) VALUES (?, ?, ?, ?, ?, ?)`,
                r.Product, r.Warehouse, r.Channel, r.State, r.Week, r.Units); err != nil {
                return err
            }
        }
        return nil
    })
}

func (s *SQLite) Settings(ctx context.Context) (model.Settings, error) {
    var body string
    err := s.db.GetContext(ctx, &body, `SELECT body FROM settings WHERE id = 1`)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Settings{}, nil
    }
    if err != nil {
        return model.Settings{}, err
    }
    var out model.Settings
    if err := json.Unmarshal([]byte(body), &out); err != nil {
        return model.Settings{}, err
    }
    return out, nil
}

func (s *SQLite) SaveSettings(ctx context.Context, set model.Settings) error {
    body, err := json.Marshal(set)
    if err != nil {
        return err
    }
    _, err = s.db.ExecContext(ctx,
        `INSERT INTO settings (id, body) VALUES (1, ?) ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
        string(body))
    return err
}

func (s *SQLite) SavePlan(ctx context.Context, p model.PlanResult) error {
    body, err := json.Marshal(p)
    if err != nil {
        return err
    }
    _, err = s.db.ExecContext(ctx,
        `INSERT INTO plans (id, created_at, body) VALUES (?, ?, ?) ON CONFLICT(id) DO UPDATE SET body = excluded.body`,
        p.ID, p.CreatedAt, string(body))
    return err
}

func (s *SQLite) GetPlan(ctx context.Context, id string) (model.PlanResult, error) {
    var body string
    err := s.db.GetContext(ctx, &body, `SELECT body FROM plans WHERE id = ?`, id)
    if errors.Is(err, sql.ErrNoRows) {
        return model.PlanResult{}, ErrNotFound
    }
    if err != nil {
        return model.PlanResult{}, err
    }
    var out model.PlanResult
    if err := json.Unmarshal([]byte(body), &out); err != nil {
        return model.PlanResult{}, err
    }
    return out, nil
}

func (s *SQLite) ListPlans(ctx context.Context, limit int) ([]model.PlanResult, error) {
    if limit <= 0 || limit > 500 {
        limit = 100
    }
    var bodies []string
    if err := s.db.SelectContext(ctx, &bodies,
        `SELECT body FROM plans ORDER BY created_at DESC LIMIT ?`, limit); err != nil {
        return nil, err
    }
    out := make([]model.PlanResult, 0, len(bodies))
    for _, b := range bodies {
        var p model.PlanResult
        if err := json.Unmarshal([]byte(b), &p); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    return out, nil
}
