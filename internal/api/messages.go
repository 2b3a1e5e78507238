package api

// Money amounts travel as decimal strings ("1234.50") and dates as
// "2006-01-02".

type Currency struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

type Transaction struct {
	ID            string    `json:"id"`
	Description   string    `json:"description"`
	Amount        string    `json:"amount"`
	Kind          string    `json:"kind"`
	Date          string    `json:"date"`
	IsSettled     bool      `json:"is_settled"`
	FamilyID      string    `json:"family_id"`
	UserID        string    `json:"user_id"`
	CurrencyID    string    `json:"currency_id"`
	CategoryID    string    `json:"category_id,omitempty"`
	GroupID       string    `json:"group_id,omitempty"`
	Recurrence    string    `json:"recurrence"`
	GroupPosition int       `json:"group_position,omitempty"`
	GroupSize     int       `json:"group_size,omitempty"`
	Currency      *Currency `json:"currency,omitempty"`
	Category      *Category `json:"category,omitempty"`
	CreatedAt     int64     `json:"created_at"`
	UpdatedAt     int64     `json:"updated_at"`
}

type Family struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsOpen    bool   `json:"is_open"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	FamilyID     string `json:"family_id"`
	IsPrivileged bool   `json:"is_privileged"`
	CreatedAt    int64  `json:"created_at"`
}

type CurrencySummary struct {
	CurrencyID     string `json:"currency_id"`
	Code           string `json:"code"`
	Symbol         string `json:"symbol"`
	Income         string `json:"income"`
	SettledExpense string `json:"settled_expense"`
	PendingExpense string `json:"pending_expense"`
	Balance        string `json:"balance"`
	Projected      string `json:"projected"`
}

// TransactionService

type CreateTransactionRequest struct {
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Kind         string `json:"kind"`
	Date         string `json:"date"`
	CurrencyID   string `json:"currency_id"`
	CategoryID   string `json:"category_id,omitempty"`
	IsSettled    bool   `json:"is_settled"`
	FamilyID     string `json:"family_id,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	Recurrence   string `json:"recurrence,omitempty"`
	Installments int    `json:"installments,omitempty"`
}

// UpdateTransactionRequest is a partial edit. Omitted fields are kept.
type UpdateTransactionRequest struct {
	ID               string  `json:"id"`
	Description      *string `json:"description,omitempty"`
	Amount           *string `json:"amount,omitempty"`
	Kind             *string `json:"kind,omitempty"`
	Date             *string `json:"date,omitempty"`
	CategoryID       *string `json:"category_id,omitempty"`
	CurrencyID       *string `json:"currency_id,omitempty"`
	IsSettled        *bool   `json:"is_settled,omitempty"`
	PropagateForward bool    `json:"propagate_forward"`
}

type TransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type DeleteTransactionRequest struct {
	ID string `json:"id"`
}

type ListTransactionsRequest struct {
	FamilyID string `json:"family_id,omitempty"`
	Month    int    `json:"month"`
	Year     int    `json:"year"`
}

type SummaryRequest struct {
	FamilyID   string `json:"family_id,omitempty"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	CategoryID string `json:"category_id,omitempty"`
	Nature     string `json:"nature,omitempty"`
}

type SummaryResponse struct {
	FamilyID     string            `json:"family_id"`
	Month        int               `json:"month"`
	Year         int               `json:"year"`
	Currencies   []CurrencySummary `json:"currencies"`
	Transactions []*Transaction    `json:"transactions"`
}

// FamilyService

type CreateFamilyRequest struct {
	Name         string `json:"name"`
	SharedSecret string `json:"shared_secret,omitempty"`
}

// UpdateFamilyRequest renames a family or rotates its secret. An empty
// shared_secret opens the family.
type UpdateFamilyRequest struct {
	ID           string  `json:"id"`
	Name         *string `json:"name,omitempty"`
	SharedSecret *string `json:"shared_secret,omitempty"`
}

type FamilyResponse struct {
	Family *Family `json:"family"`
}

type ListFamiliesResponse struct {
	Families []*Family `json:"families"`
}

type JoinFamilyRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Secret       string `json:"secret"`
	FamilyID     string `json:"family_id"`
	FamilySecret string `json:"family_secret,omitempty"`
}

// AuthService

type LoginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type UserResponse struct {
	User *User `json:"user"`
}

// ReferenceService

type ListCurrenciesResponse struct {
	Currencies []*Currency `json:"currencies"`
}

type ListCategoriesResponse struct {
	Categories []*Category `json:"categories"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type RenameCategoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DeleteCategoryRequest struct {
	ID string `json:"id"`
}

type CategoryResponse struct {
	Category *Category `json:"category"`
}
