package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"

    _ "github.com/jackc/pgx/v5/stdlib"

    "walloc/internal/model"
)

// Postgres is the shared-database store, selected via DATABASE_URL.
type Postgres struct {
    db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if err := db.Ping(); err != nil {
        return nil, err
    }
    p := &Postgres{db: db}
    if err := p.EnsureSchema(context.Background()); err != nil {
        db.Close()
        return nil, err
    }
    return p, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

// EnsureSchema creates the tables on first use. Migrations are overkill for
// a dozen flat record tables.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS warehouses (
            name TEXT PRIMARY KEY, address TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL, lng DOUBLE PRECISION NOT NULL,
            capacity DOUBLE PRECISION NOT NULL
        )`,
        `CREATE TABLE IF NOT EXISTS distribution_centers (
            channel TEXT, state TEXT, address TEXT NOT NULL DEFAULT '',
            lat DOUBLE PRECISION NOT NULL, lng DOUBLE PRECISION NOT NULL,
            PRIMARY KEY (channel, state)
        )`,
        `CREATE TABLE IF NOT EXISTS skus (
            code TEXT PRIMARY KEY, name TEXT NOT NULL DEFAULT '',
            length_in DOUBLE PRECISION, width_in DOUBLE PRECISION,
            height_in DOUBLE PRECISION, weight_lb DOUBLE PRECISION,
            unit_type TEXT NOT NULL DEFAULT ''
        )`,
        `CREATE TABLE IF NOT EXISTS carriers (
            name TEXT, mode TEXT, description TEXT NOT NULL DEFAULT '',
            tiers JSONB NOT NULL DEFAULT '[]',
            PRIMARY KEY (name, mode)
        )`,
        `CREATE TABLE IF NOT EXISTS vehicles (
            name TEXT PRIMARY KEY,
            length_in DOUBLE PRECISION, width_in DOUBLE PRECISION,
            height_in DOUBLE PRECISION, max_weight_lb DOUBLE PRECISION,
            description TEXT NOT NULL DEFAULT ''
        )`,
        `CREATE TABLE IF NOT EXISTS snapshots (
            warehouse TEXT, sku TEXT, week INT, quantity DOUBLE PRECISION
        )`,
        `CREATE TABLE IF NOT EXISTS schedule (
            warehouse TEXT, sku TEXT, week INT, direction TEXT, quantity DOUBLE PRECISION
        )`,
        `CREATE TABLE IF NOT EXISTS demand_forecast (
            product TEXT, channel TEXT, state TEXT, week INT, units DOUBLE PRECISION
        )`,
        `CREATE TABLE IF NOT EXISTS customer_plan (
            product TEXT, warehouse TEXT, channel TEXT, state TEXT, week INT, units DOUBLE PRECISION
        )`,
        `CREATE TABLE IF NOT EXISTS settings (
            id INT PRIMARY KEY CHECK (id = 1), body JSONB NOT NULL
        )`,
        `CREATE TABLE IF NOT EXISTS plans (
            id TEXT PRIMARY KEY, created_at TIMESTAMPTZ NOT NULL, body JSONB NOT NULL
        )`,
    }
    for _, q := range stmts {
        if _, err := p.db.ExecContext(ctx, q); err != nil {
            return fmt.Errorf("ensure schema: %w", err)
        }
    }
    return nil
}

func (p *Postgres) replace(ctx context.Context, table string, run func(tx *sql.Tx) error) error {
    tx, err := p.db.BeginTx(ctx, nil)
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

func (p *Postgres) Warehouses(ctx context.Context) ([]model.Warehouse, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT name, address, lat, lng, capacity FROM warehouses ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Warehouse
    for rows.Next() {
        var w model.Warehouse
        if err := rows.Scan(&w.Name, &w.Address, &w.Location.Lat, &w.Location.Lng, &w.Capacity); err != nil {
            return nil, err
        }
        out = append(out, w)
    }
    return out, rows.Err()
}

func (p *Postgres) PutWarehouses(ctx context.Context, ws []model.Warehouse) error {
    return p.replace(ctx, "warehouses", func(tx *sql.Tx) error {
        for _, w := range ws {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO warehouses (name, address, lat, lng, capacity) VALUES ($1,$2,$3,$4,$5)`,
                w.Name, w.Address, w.Location.Lat, w.Location.Lng, w.Capacity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) DistributionCenters(ctx context.Context) ([]model.DistributionCenter, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT channel, state, address, lat, lng FROM distribution_centers ORDER BY channel, state`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.DistributionCenter
    for rows.Next() {
        var d model.DistributionCenter
        if err := rows.Scan(&d.Channel, &d.State, &d.Address, &d.Location.Lat, &d.Location.Lng); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

func (p *Postgres) PutDistributionCenters(ctx context.Context, ds []model.DistributionCenter) error {
    return p.replace(ctx, "distribution_centers", func(tx *sql.Tx) error {
        for _, d := range ds {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO distribution_centers (channel, state, address, lat, lng) VALUES ($1,$2,$3,$4,$5)`,
                d.Channel, d.State, d.Address, d.Location.Lat, d.Location.Lng); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) SKUs(ctx context.Context) ([]model.SKU, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT code, name, length_in, width_in, height_in, weight_lb, unit_type FROM skus ORDER BY code`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.SKU
    for rows.Next() {
        var k model.SKU
        if err := rows.Scan(&k.Code, &k.Name, &k.LengthIn, &k.WidthIn, &k.HeightIn, &k.WeightLb, &k.UnitType); err != nil {
            return nil, err
        }
        out = append(out, k)
    }
    return out, rows.Err()
}

func (p *Postgres) PutSKUs(ctx context.Context, ks []model.SKU) error {
    return p.replace(ctx, "skus", func(tx *sql.Tx) error {
        for _, k := range ks {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO skus (code, name, length_in, width_in, height_in, weight_lb, unit_type) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
                k.Code, k.Name, k.LengthIn, k.WidthIn, k.HeightIn, k.WeightLb, k.UnitType); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) Carriers(ctx context.Context) ([]model.Carrier, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT name, mode, description, tiers FROM carriers ORDER BY name, mode`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Carrier
    for rows.Next() {
        var c model.Carrier
        var tiers []byte
        if err := rows.Scan(&c.Name, &c.Mode, &c.Description, &tiers); err != nil {
            return nil, err
        }
        if len(tiers) > 0 {
            if err := json.Unmarshal(tiers, &c.Tiers); err != nil {
                return nil, fmt.Errorf("carrier %s: bad tier payload: %w", c.Key(), err)
            }
        }
        out = append(out, c)
    }
    return out, rows.Err()
}

func (p *Postgres) PutCarriers(ctx context.Context, cs []model.Carrier) error {
    return p.replace(ctx, "carriers", func(tx *sql.Tx) error {
        for _, c := range cs {
            tiers, err := json.Marshal(c.Tiers)
            if err != nil {
                return err
            }
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO carriers (name, mode, description, tiers) VALUES ($1,$2,$3,$4)`,
                c.Name, c.Mode, c.Description, tiers); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) Vehicles(ctx context.Context) ([]model.Vehicle, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT name, length_in, width_in, height_in, max_weight_lb, description FROM vehicles ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Vehicle
    for rows.Next() {
        var v model.Vehicle
        if err := rows.Scan(&v.Name, &v.LengthIn, &v.WidthIn, &v.HeightIn, &v.MaxWeightLb, &v.Description); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}

func (p *Postgres) PutVehicles(ctx context.Context, vs []model.Vehicle) error {
    return p.replace(ctx, "vehicles", func(tx *sql.Tx) error {
        for _, v := range vs {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO vehicles (name, length_in, width_in, height_in, max_weight_lb, description) VALUES ($1,$2,$3,$4,$5,$6)`,
                v.Name, v.LengthIn, v.WidthIn, v.HeightIn, v.MaxWeightLb, v.Description); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) Snapshots(ctx context.Context) ([]model.InventorySnapshot, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT warehouse, sku, week, quantity FROM snapshots ORDER BY warehouse, sku, week`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.InventorySnapshot
    for rows.Next() {
        var r model.InventorySnapshot
        if err := rows.Scan(&r.Warehouse, &r.SKU, &r.Week, &r.Quantity); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, rows.Err()
}

func (p *Postgres) PutSnapshots(ctx context.Context, rs []model.InventorySnapshot) error {
    return p.replace(ctx, "snapshots", func(tx *sql.Tx) error {
        for _, r := range rs {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO snapshots (warehouse, sku, week, quantity) VALUES ($1,$2,$3,$4)`,
                r.Warehouse, r.SKU, r.Week, r.Quantity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) Schedule(ctx context.Context) ([]model.ScheduleEntry, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT warehouse, sku, week, direction, quantity FROM schedule ORDER BY warehouse, sku, week, direction`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.ScheduleEntry
    for rows.Next() {
        var r model.ScheduleEntry
        if err := rows.Scan(&r.Warehouse, &r.SKU, &r.Week, &r.Direction, &r.Quantity); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, rows.Err()
}

func (p *Postgres) PutSchedule(ctx context.Context, rs []model.ScheduleEntry) error {
    return p.replace(ctx, "schedule", func(tx *sql.Tx) error {
        for _, r := range rs {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO schedule (warehouse, sku, week, direction, quantity) VALUES ($1,$2,$3,$4,$5)`,
                r.Warehouse, r.SKU, r.Week, r.Direction, r.Quantity); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) DemandForecast(ctx context.Context) ([]model.DemandRow, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT product, channel, state, week, units FROM demand_forecast ORDER BY product, channel, state, week`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.DemandRow
    for rows.Next() {
        var r model.DemandRow
        if err := rows.Scan(&r.Product, &r.Channel, &r.State, &r.Week, &r.Units); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, rows.Err()
}

func (p *Postgres) PutDemandForecast(ctx context.Context, rs []model.DemandRow) error {
    return p.replace(ctx, "demand_forecast", func(tx *sql.Tx) error {
        for _, r := range rs {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO demand_forecast (product, channel, state, week, units) VALUES ($1,$2,$3,$4,$5)`,
                r.Product, r.Channel, r.State, r.Week, r.Units); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) CustomerPlan(ctx context.Context) ([]model.CustomerPlanRow, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT product, warehouse, channel, state, week, units FROM customer_plan ORDER BY product, warehouse, channel, state, week`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.CustomerPlanRow
    for rows.Next() {
        var r model.CustomerPlanRow
        if err := rows.Scan(&r.Product, &r.Warehouse, &r.Channel, &r.State, &r.Week, &r.Units); err != nil {
            return nil, err
        }
        out = append(out, r)
    }
    return out, rows.Err()
}

func (p *Postgres) PutCustomerPlan(ctx context.Context, rs []model.CustomerPlanRow) error {
    return p.replace(ctx, "customer_plan", func(tx *sql.Tx) error {
        for _, r := range rs {
            if _, err := tx.ExecContext(ctx,
                `INSERT INTO customer_plan (product, warehouse, channel, state, week, units) VALUES ($1,$2,$3,$4,$5,$6)`,
                r.Product, r.Warehouse, r.Channel, r.State, r.Week, r.Units); err != nil {
                return err
            }
        }
        return nil
    })
}

func (p *Postgres) Settings(ctx context.Context) (model.Settings, error) {
    var body []byte
    err := p.db.QueryRowContext(ctx, `SELECT body FROM settings WHERE id = 1`).Scan(&body)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Settings{}, nil
    }
    if err != nil {
        return model.Settings{}, err
    }
    var out model.Settings
    if err := json.Unmarshal(body, &out); err != nil {
        return model.Settings{}, err
    }
    return out, nil
}

func (p *Postgres) SaveSettings(ctx context.Context, s model.Settings) error {
    body, err := json.Marshal(s)
    if err != nil {
        return err
    }
    _, err = p.db.ExecContext(ctx,
        `INSERT INTO settings (id, body) VALUES (1, $1) ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body`,
        body)
    return err
}

func (p *Postgres) SavePlan(ctx context.Context, pl model.PlanResult) error {
    body, err := json.Marshal(pl)
    if err != nil {
        return err
    }
    _, err = p.db.ExecContext(ctx,
        `INSERT INTO plans (id, created_at, body) VALUES ($1,$2,$3) ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body`,
        pl.ID, pl.CreatedAt, body)
    return err
}

func (p *Postgres) GetPlan(ctx context.Context, id string) (model.PlanResult, error) {
    var body []byte
    err := p.db.QueryRowContext(ctx, `SELECT body FROM plans WHERE id = $1`, id).Scan(&body)
    if errors.Is(err, sql.ErrNoRows) {
        return model.PlanResult{}, ErrNotFound
    }
    if err != nil {
        return model.PlanResult{}, err
    }
    var out model.PlanResult
    if err := json.Unmarshal(body, &out); err != nil {
        return model.PlanResult{}, err
    }
    return out, nil
}

func (p *Postgres) ListPlans(ctx context.Context, limit int) ([]model.PlanResult, error) {
    if limit <= 0 || limit > 500 {
        limit = 100
    }
    rows, err := p.db.QueryContext(ctx, `SELECT body FROM plans ORDER BY created_at DESC LIMIT $1`, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.PlanResult
    for rows.Next() {
        var body []byte
        if err := rows.Scan(&body); err != nil {
            return nil, err
        }
        var pl model.PlanResult
        if err := json.Unmarshal(body, &pl); err != nil {
            return nil, err
        }
        out = append(out, pl)
    }
    return out, rows.Err()
}
