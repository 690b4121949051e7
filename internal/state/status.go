package state

// Scope names the slice a request-lifecycle action applies to.
type Scope string

const (
	ScopeCatalog    Scope = "catalog"
	ScopeCategories Scope = "categories"
	ScopeCart       Scope = "cart"
	ScopeAuth       Scope = "auth"
	ScopePayment    Scope = "payment"
	ScopeOrders     Scope = "orders"
	ScopeCustomers  Scope = "customers"
	ScopeAdmin      Scope = "admin"
)

// RequestStatus is the transient loading/error marker embedded in every slice.
type RequestStatus struct {
	IsLoading    bool   `json:"isLoading"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// lifecycle applies RequestStarted/Succeeded/Failed addressed to scope.
// The boolean is false when the action is not a lifecycle action for scope.
func lifecycle(scope Scope, status RequestStatus, action Action) (RequestStatus, bool) {
	switch a := action.(type) {
	case RequestStarted:
		if a.Scope == scope {
			return RequestStatus{IsLoading: true}, true
		}
	case RequestSucceeded:
		if a.Scope == scope {
			status.IsLoading = false
			return status, true
		}
	case RequestFailed:
		if a.Scope == scope {
			return RequestStatus{IsLoading: false, ErrorMessage: a.Message}, true
		}
	}
	return status, false
}

// StatusState mirrors the most recent lifecycle event of any scope, plus the button loader.
type StatusState struct {
	RequestStatus
	LastScope     Scope `json:"lastScope,omitempty"`
	ButtonLoading bool  `json:"buttonLoading"`
}

func reduceStatus(s StatusState, action Action) StatusState {
	switch a := action.(type) {
	case RequestStarted:
		s.RequestStatus, _ = lifecycle(a.Scope, s.RequestStatus, a)
		s.LastScope = a.Scope
	case RequestSucceeded:
		s.RequestStatus, _ = lifecycle(a.Scope, s.RequestStatus, a)
		s.LastScope = a.Scope
	case RequestFailed:
		s.RequestStatus, _ = lifecycle(a.Scope, s.RequestStatus, a)
		s.LastScope = a.Scope
	case ButtonLoadingSet:
		s.ButtonLoading = a.Loading
	}
	return s
}
