package yamlfile

// Document is the on-disk description of a network instance
type Document struct {
	Name     string       `yaml:"name"`
	Products []ProductDoc `yaml:"products" validate:"dive"`
	Nodes    []NodeDoc    `yaml:"nodes" validate:"required,min=1,dive"`
	Edges    []EdgeDoc    `yaml:"edges" validate:"dive"`
}

// AttributesDoc holds attributes settable at node, product or node-product level
type AttributesDoc struct {
	HoldingCost           *float64   `yaml:"holding_cost" validate:"omitempty,gte=0"`
	StockoutCost          *float64   `yaml:"stockout_cost" validate:"omitempty,gte=0"`
	InTransitHoldingCost  *float64   `yaml:"in_transit_holding_cost" validate:"omitempty,gte=0"`
	InitialInventoryLevel *float64   `yaml:"initial_inventory_level"`
	InitialOrders         *float64   `yaml:"initial_orders" validate:"omitempty,gte=0"`
	InitialShipments      *float64   `yaml:"initial_shipments" validate:"omitempty,gte=0"`
	OrderCapacity         *float64   `yaml:"order_capacity" validate:"omitempty,gte=0"`
	Demand                *DemandDoc `yaml:"demand"`
	Policy                *PolicyDoc `yaml:"policy"`
}

// ProductDoc describes a product and its bill of materials
type ProductDoc struct {
	ID   int    `yaml:"id" validate:"gte=0"`
	Name string `yaml:"name"`
	// BillOfMaterials maps raw material id to units per unit of this product
	BillOfMaterials map[int]float64 `yaml:"bill_of_materials" validate:"dive,gte=0"`

	AttributesDoc `yaml:",inline"`
}

// NodeDoc describes a node
type NodeDoc struct {
	ID               int    `yaml:"id" validate:"gte=0"`
	Name             string `yaml:"name"`
	OrderLeadTime    int    `yaml:"order_lead_time" validate:"gte=0"`
	ShipmentLeadTime int    `yaml:"shipment_lead_time" validate:"gte=0"`
	Products         []int  `yaml:"products" validate:"dive,gte=0"`

	Disruption        *DisruptionDoc        `yaml:"disruption"`
	ProductAttributes map[int]AttributesDoc `yaml:"product_attributes" validate:"dive"`

	AttributesDoc `yaml:",inline"`
}

// EdgeDoc is a "ships to" edge
type EdgeDoc struct {
	From int `yaml:"from" validate:"gte=0"`
	To   int `yaml:"to" validate:"gte=0"`
}

// DemandDoc describes a demand source
type DemandDoc struct {
	Type          string    `yaml:"type" validate:"oneof=N P UD UC D CD NB"`
	Mean          float64   `yaml:"mean"`
	StdDev        float64   `yaml:"std_dev" validate:"gte=0"`
	Lo            float64   `yaml:"lo"`
	Hi            float64   `yaml:"hi"`
	Values        []float64 `yaml:"values"`
	Probabilities []float64 `yaml:"probabilities" validate:"dive,gte=0,lte=1"`
	R             float64   `yaml:"r"`
	P             float64   `yaml:"p"`
	RoundToInt    bool      `yaml:"round_to_int"`
}

// PolicyDoc describes an inventory policy
type PolicyDoc struct {
	Type           string  `yaml:"type" validate:"oneof=BS rQ sS EBS FQ"`
	BaseStockLevel float64 `yaml:"base_stock_level"`
	ReorderPoint   float64 `yaml:"reorder_point"`
	OrderQuantity  float64 `yaml:"order_quantity" validate:"gte=0"`
	OrderUpTo      float64 `yaml:"order_up_to"`
}

// DisruptionDoc describes a disruption process
type DisruptionDoc struct {
	Model                 string  `yaml:"model" validate:"oneof=M R E"`
	Type                  string  `yaml:"type" validate:"oneof=OP SP TP RP"`
	DisruptionProbability float64 `yaml:"disruption_probability" validate:"gte=0,lte=1"`
	RecoveryProbability   float64 `yaml:"recovery_probability" validate:"gte=0,lte=1"`
	DisruptedPeriods      []int   `yaml:"disrupted_periods" validate:"dive,gte=0"`
	InitiallyDisrupted    bool    `yaml:"initially_disrupted"`
}
