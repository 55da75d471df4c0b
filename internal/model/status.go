package model

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusInTransit OrderStatus = "InTransit"
	StatusDelivered OrderStatus = "Delivered"
)

// Orden estricto del flujo: Pending < Preparing < InTransit < Delivered.
var statusOrder = []OrderStatus{StatusPending, StatusPreparing, StatusInTransit, StatusDelivered}

// Rank devuelve la posición del estado en el flujo, o -1 si no es válido.
func (s OrderStatus) Rank() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool { return s.Rank() >= 0 }

func (s OrderStatus) IsFinal() bool { return s == StatusDelivered }

// Next devuelve el siguiente estado del flujo.
func (s OrderStatus) Next() (OrderStatus, bool) {
	r := s.Rank()
	if r < 0 || r+1 >= len(statusOrder) {
		return "", false
	}
	return statusOrder[r+1], true
}

// Above devuelve todos los estados de rango estrictamente mayor.
func (s OrderStatus) Above() []OrderStatus {
	r := s.Rank()
	if r < 0 {
		return nil
	}
	out := make([]OrderStatus, 0, len(statusOrder)-r-1)
	out = append(out, statusOrder[r+1:]...)
	return out
}

// Between devuelve los estados intermedios que se saltan al ir de s a target.
func (s OrderStatus) Between(target OrderStatus) []OrderStatus {
	from, to := s.Rank(), target.Rank()
	if from < 0 || to <= from+1 {
		return nil
	}
	out := make([]OrderStatus, 0, to-from-1)
	out = append(out, statusOrder[from+1:to]...)
	return out
}

func AllStatuses() []OrderStatus {
	out := make([]OrderStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool { return r == RoleBuyer || r == RoleSeller }
