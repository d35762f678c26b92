package store

import "walloc/internal/model"

// Dataset is the bundle of records a store starts from.
type Dataset struct {
    Warehouses          []model.Warehouse
    DistributionCenters []model.DistributionCenter
    SKUs                []model.SKU
    Carriers            []model.Carrier
    Vehicles            []model.Vehicle
    Snapshots           []model.InventorySnapshot
    Schedule            []model.ScheduleEntry
    Demand              []model.DemandRow
    CustomerPlan        []model.CustomerPlanRow
    Settings            model.Settings
}

// SeedDataset returns the default network: four warehouses, four retail
// distribution centers, the carrier rate cards and trailer specs, and a
// two-week demand forecast for the planning horizon (weeks 3 and 4).
func SeedDataset() Dataset {
    return Dataset{
        Warehouses: []model.Warehouse{
            {Name: "EL PASO", Address: "12100 Emerald Pass Drive, El Paso, TX 79936", Location: model.GeoPoint{Lat: 31.77, Lng: -106.43}, Capacity: 10000},
            {Name: "Valley View", Address: "6800 Valley View St, Buena Park, CA 90620", Location: model.GeoPoint{Lat: 33.85, Lng: -118.00}, Capacity: 12000},
            {Name: "Seabrook", Address: "300 Seabrook Parkway, Pooler, GA 31322", Location: model.GeoPoint{Lat: 32.11, Lng: -81.25}, Capacity: 9000},
            {Name: "Cesanek", Address: "175 Cesanek Rd., Northampton, PA 18067", Location: model.GeoPoint{Lat: 40.69, Lng: -75.49}, Capacity: 11000},
        },
        DistributionCenters: []model.DistributionCenter{
            {Channel: "Amazon", State: "CA", Address: "San Francisco, CA", Location: model.GeoPoint{Lat: 37.77, Lng: -122.42}},
            {Channel: "Walmart", State: "TX", Address: "Dallas, TX", Location: model.GeoPoint{Lat: 32.78, Lng: -96.80}},
            {Channel: "Target", State: "GA", Address: "Atlanta, GA", Location: model.GeoPoint{Lat: 33.75, Lng: -84.39}},
            {Channel: "Amazon", State: "PA", Address: "Philadelphia, PA", Location: model.GeoPoint{Lat: 39.95, Lng: -75.17}},
        },
        SKUs: []model.SKU{
            {Code: "32Q21K", Name: "Product A", LengthIn: 12, WidthIn: 8, HeightIn: 6, WeightLb: 5, UnitType: "each"},
            {Code: "SKU-B001", Name: "Product B", LengthIn: 24, WidthIn: 18, HeightIn: 12, WeightLb: 15, UnitType: "case"},
            {Code: "SKU-C002", Name: "Product C", LengthIn: 48, WidthIn: 40, HeightIn: 36, WeightLb: 45, UnitType: "pallet"},
        },
        Carriers: []model.Carrier{
            {Name: "UPS", Mode: "LTL", Description: "Less Than Truckload", Tiers: []model.RateTier{
                {MinDistance: 0, MaxDistance: 500, Rate: 2.5, MinimumCharge: 25, FixedFee: 15},
                {MinDistance: 500, MaxDistance: 1000, Rate: 2.2, MinimumCharge: 35, FixedFee: 15},
                {MinDistance: 1000, MaxDistance: 99999, Rate: 1.8, MinimumCharge: 50, FixedFee: 15},
            }},
            {Name: "FedEx", Mode: "LTL", Description: "Less Than Truckload", Tiers: []model.RateTier{
                {MinDistance: 0, MaxDistance: 500, Rate: 2.8, MinimumCharge: 30, FixedFee: 20},
                {MinDistance: 500, MaxDistance: 1000, Rate: 2.4, MinimumCharge: 40, FixedFee: 20},
            }},
            {Name: "XPO", Mode: "FTL", Description: "Full Truckload", Tiers: []model.RateTier{
                {MinDistance: 0, MaxDistance: 2000, Rate: 4.5, MinimumCharge: 200, FixedFee: 100},
                {MinDistance: 2000, MaxDistance: 99999, Rate: 3.8, MinimumCharge: 300, FixedFee: 100},
            }},
            {Name: "Old Dominion", Mode: "LTL", Description: "Less Than Truckload"},
            {Name: "TMS", Mode: "LTL", Description: "Our own fleet - Less Than Truckload", Tiers: []model.RateTier{
                {MinDistance: 0, MaxDistance: 500, Rate: 2.0, MinimumCharge: 20, FixedFee: 10},
                {MinDistance: 500, MaxDistance: 1000, Rate: 1.8, MinimumCharge: 25, FixedFee: 10},
                {MinDistance: 1000, MaxDistance: 99999, Rate: 1.5, MinimumCharge: 30, FixedFee: 10},
            }},
            {Name: "TMS", Mode: "FTL", Description: "Our own fleet - Full Truckload", Tiers: []model.RateTier{
                {MinDistance: 0, MaxDistance: 2000, Rate: 3.5, MinimumCharge: 150, FixedFee: 80},
                {MinDistance: 2000, MaxDistance: 99999, Rate: 3.0, MinimumCharge: 200, FixedFee: 80},
            }},
        },
        Vehicles: []model.Vehicle{
            {Name: "53' Trailer", LengthIn: 636, WidthIn: 96, HeightIn: 108, MaxWeightLb: 45000, Description: "Standard 53 foot trailer"},
            {Name: "40' Trailer", LengthIn: 480, WidthIn: 96, HeightIn: 108, MaxWeightLb: 40000, Description: "Standard 40 foot trailer"},
        },
        Snapshots: []model.InventorySnapshot{
            {Warehouse: "EL PASO", SKU: "32Q21K", Week: 1, Quantity: 3000},
            {Warehouse: "Valley View", SKU: "32Q21K", Week: 1, Quantity: 3500},
            {Warehouse: "Seabrook", SKU: "32Q21K", Week: 1, Quantity: 2500},
            {Warehouse: "Cesanek", SKU: "32Q21K", Week: 1, Quantity: 3000},
        },
        Schedule: []model.ScheduleEntry{
            {Warehouse: "EL PASO", SKU: "32Q21K", Week: 2, Direction: model.DirectionOutgoing, Quantity: 650},
            {Warehouse: "EL PASO", SKU: "32Q21K", Week: 3, Direction: model.DirectionIncoming, Quantity: 200},
            {Warehouse: "EL PASO", SKU: "32Q21K", Week: 4, Direction: model.DirectionIncoming, Quantity: 250},
            {Warehouse: "Valley View", SKU: "32Q21K", Week: 2, Direction: model.DirectionOutgoing, Quantity: 850},
            {Warehouse: "Valley View", SKU: "32Q21K", Week: 3, Direction: model.DirectionIncoming, Quantity: 300},
            {Warehouse: "Valley View", SKU: "32Q21K", Week: 4, Direction: model.DirectionIncoming, Quantity: 350},
            {Warehouse: "Seabrook", SKU: "32Q21K", Week: 2, Direction: model.DirectionOutgoing, Quantity: 450},
            {Warehouse: "Seabrook", SKU: "32Q21K", Week: 3, Direction: model.DirectionIncoming, Quantity: 150},
            {Warehouse: "Seabrook", SKU: "32Q21K", Week: 4, Direction: model.DirectionIncoming, Quantity: 200},
            {Warehouse: "Cesanek", SKU: "32Q21K", Week: 2, Direction: model.DirectionOutgoing, Quantity: 350},
            {Warehouse: "Cesanek", SKU: "32Q21K", Week: 3, Direction: model.DirectionIncoming, Quantity: 200},
            {Warehouse: "Cesanek", SKU: "32Q21K", Week: 4, Direction: model.DirectionIncoming, Quantity: 250},
        },
        Demand: []model.DemandRow{
            {Product: "32Q21K", Channel: "Amazon", State: "CA", Week: 3, Units: 2200},
            {Product: "32Q21K", Channel: "Walmart", State: "TX", Week: 3, Units: 1800},
            {Product: "32Q21K", Channel: "Target", State: "GA", Week: 3, Units: 1600},
            {Product: "32Q21K", Channel: "Amazon", State: "PA", Week: 3, Units: 1900},
            {Product: "32Q21K", Channel: "Amazon", State: "CA", Week: 4, Units: 2300},
            {Product: "32Q21K", Channel: "Walmart", State: "TX", Week: 4, Units: 1900},
            {Product: "32Q21K", Channel: "Target", State: "GA", Week: 4, Units: 1700},
            {Product: "32Q21K", Channel: "Amazon", State: "PA", Week: 4, Units: 2000},
        },
        CustomerPlan: []model.CustomerPlanRow{
            {Product: "32Q21K", Warehouse: "Valley View", Channel: "Amazon", State: "CA", Week: 3, Units: 2200},
            {Product: "32Q21K", Warehouse: "EL PASO", Channel: "Walmart", State: "TX", Week: 3, Units: 1800},
            {Product: "32Q21K", Warehouse: "EL PASO", Channel: "Target", State: "GA", Week: 3, Units: 1600},
            {Product: "32Q21K", Warehouse: "Cesanek", Channel: "Amazon", State: "PA", Week: 3, Units: 1900},
            {Product: "32Q21K", Warehouse: "Valley View", Channel: "Amazon", State: "CA", Week: 4, Units: 2300},
            {Product: "32Q21K", Warehouse: "EL PASO", Channel: "Walmart", State: "TX", Week: 4, Units: 1900},
            {Product: "32Q21K", Warehouse: "EL PASO", Channel: "Target", State: "GA", Week: 4, Units: 1700},
            {Product: "32Q21K", Warehouse: "Cesanek", Channel: "Amazon", State: "PA", Week: 4, Units: 2000},
        },
        Settings: model.Settings{
            MarketRatePer100Mi:  0.18,
            TMSRatePer100Mi:     0.12,
            CustomerCarrier:     "UPS/LTL",
            TMSCarrier:          "TMS/LTL",
            CustomerWarehouses:  []string{"EL PASO", "Valley View", "Cesanek"},
        },
    }
}
