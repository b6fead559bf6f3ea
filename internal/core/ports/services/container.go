package services

// ServiceContainer bundles the service facades for injection into the HTTP
// layer.
type ServiceContainer struct {
	Transfer TransferSvcFacade
	Balance  BalanceSvcFacade
	Escrow   EscrowSvcFacade
	Treasury TreasurySvcFacade
	Audit    AuditSvcFacade
}
