package businessservice

// Business модель салона из BusinessService
type Business struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Timezone   string     `json:"timezone"`
	ManagerIDs []int64    `json:"manager_ids"`
	Employees  []Employee `json:"employees"`
}

// Employee мастер салона
type Employee struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Service услуга салона. EmployeeIDs - мастера, выполняющие услугу
type Service struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"business_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	PriceMinorUnits int64   `json:"price_minor_units"`
	EmployeeIDs     []int64 `json:"employee_ids"`
}

// HasEmployee проверяет, что мастер существует и активен
func (b *Business) HasEmployee(employeeID int64) bool {
	for _, e := range b.Employees {
		if e.ID == employeeID && e.IsActive {
			return true
		}
	}
	return false
}

// IsManager проверяет, что пользователь входит в список менеджеров салона
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// QualifiedRoster возвращает ростер мастеров, выполняющих услугу:
// пересечение мастеров услуги с активными мастерами салона
func (s *Service) QualifiedRoster(business *Business) []int64 {
	roster := make([]int64, 0, len(s.EmployeeIDs))
	for _, id := range s.EmployeeIDs {
		if business.HasEmployee(id) {
			roster = append(roster, id)
		}
	}
	return roster
}

// ErrorResponse модель ошибки от BusinessService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
