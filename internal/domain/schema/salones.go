package schema

import (
	"fmt"
	"sort"
)

// Tablas del esquema.
const (
	TableUsers                = "users"
	TableVenues               = "venues"
	TablePackages             = "packages"
	TableServices             = "services"
	TableSeasons              = "seasons"
	TablePackageServices      = "package_services"
	TablePackageVenues        = "package_venues"
	TablePriceHistory         = "price_history"
	TableInventoryItems       = "inventory_items"
	TableCentralStock         = "central_stock"
	TableVenueStock           = "venue_stock"
	TableInventoryMovements   = "inventory_movements"
	TableInventoryAssignments = "inventory_assignments"
	TableLeads                = "leads"
	TableClients              = "clients"
	TableOffers               = "offers"
	TableOfferServices        = "offer_services"
	TableContracts            = "contracts"
	TableContractServices     = "contract_services"
	TableEvents               = "events"
	TablePayments             = "payments"
)

var salonesTables = []string{
	TableUsers, TableVenues, TablePackages, TableServices, TableSeasons,
	TablePackageServices, TablePackageVenues, TablePriceHistory,
	TableInventoryItems, TableCentralStock, TableVenueStock, TableInventoryMovements, TableInventoryAssignments,
	TableLeads, TableClients, TableOffers, TableOfferServices,
	TableContracts, TableContractServices, TableEvents, TablePayments,
}

var salonesEdges = []Edge{
	{Child: TablePackageServices, Column: "package_id", Parent: TablePackages, UniqueWith: "service_id"},
	{Child: TablePackageServices, Column: "service_id", Parent: TableServices, UniqueWith: "package_id"},
	{Child: TablePackageVenues, Column: "package_id", Parent: TablePackages, UniqueWith: "venue_id"},
	{Child: TablePackageVenues, Column: "venue_id", Parent: TableVenues, UniqueWith: "package_id"},
	{Child: TablePriceHistory, Column: "service_id", Parent: TableServices},
	{Child: TablePriceHistory, Column: "package_id", Parent: TablePackages},

	{Child: TableCentralStock, Column: "item_id", Parent: TableInventoryItems},
	{Child: TableVenueStock, Column: "venue_id", Parent: TableVenues, UniqueWith: "item_id"},
	{Child: TableVenueStock, Column: "item_id", Parent: TableInventoryItems, UniqueWith: "venue_id"},
	{Child: TableInventoryMovements, Column: "item_id", Parent: TableInventoryItems},
	{Child: TableInventoryMovements, Column: "contract_id", Parent: TableContracts, OnDelete: SetNull},
	{Child: TableInventoryMovements, Column: "user_id", Parent: TableUsers, OnDelete: SetNull},
	{Child: TableInventoryAssignments, Column: "contract_id", Parent: TableContracts},
	{Child: TableInventoryAssignments, Column: "item_id", Parent: TableInventoryItems},
	{Child: TableInventoryAssignments, Column: "venue_id", Parent: TableVenues},

	{Child: TableLeads, Column: "client_id", Parent: TableClients, OnDelete: SetNull},
	{Child: TableOffers, Column: "client_id", Parent: TableClients},
	{Child: TableOffers, Column: "package_id", Parent: TablePackages},
	{Child: TableOffers, Column: "venue_id", Parent: TableVenues},
	{Child: TableOfferServices, Column: "offer_id", Parent: TableOffers, UniqueWith: "service_id"},
	{Child: TableOfferServices, Column: "service_id", Parent: TableServices, UniqueWith: "offer_id"},
	{Child: TableContracts, Column: "client_id", Parent: TableClients},
	{Child: TableContracts, Column: "offer_id", Parent: TableOffers, OnDelete: SetNull},
	{Child: TableContracts, Column: "package_id", Parent: TablePackages},
	{Child: TableContracts, Column: "venue_id", Parent: TableVenues},
	{Child: TableContractServices, Column: "contract_id", Parent: TableContracts, UniqueWith: "service_id"},
	{Child: TableContractServices, Column: "service_id", Parent: TableServices, UniqueWith: "contract_id"},
	{Child: TableEvents, Column: "contract_id", Parent: TableContracts},
	{Child: TablePayments, Column: "contract_id", Parent: TableContracts},
}

// Salones grafo del esquema de la aplicación.
func Salones() *Graph {
	g, err := NewGraph(salonesTables, salonesEdges)
	if err != nil {
		// la declaración es estática; un error aquí es un bug de programación
		panic(err)
	}
	return g
}

// Alcances de limpieza.
var scopes = map[string][]string{
	"contratos":  {TableContracts},
	"ofertas":    {TableOffers},
	"clientes":   {TableClients},
	"leads":      {TableLeads},
	"comercial":  {TableClients, TableLeads, TableOffers, TableContracts, TablePriceHistory},
	"inventario": {TableInventoryMovements, TableInventoryAssignments, TableVenueStock},
}

// ScopeRoots tablas raíz de un alcance de limpieza.
func ScopeRoots(scope string) ([]string, error) {
	roots, ok := scopes[scope]
	if !ok {
		return nil, fmt.Errorf("alcance desconocido %q (válidos: %v)", scope, Scopes())
	}
	return append([]string(nil), roots...), nil
}

// Scopes nombres de alcance ordenados.
func Scopes() []string {
	out := make([]string, 0, len(scopes))
	for s := range scopes {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
