package domain

// ContactForm is the contact page submission.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message"`
}

// Inquiry is the get-started form submission.
type Inquiry struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	RentalItems   []string `json:"rentalItems"`
	MonthlyBudget string   `json:"monthlyBudget"`
	UsageLocation []string `json:"usageLocation"`
	WhatsApp      string   `json:"whatsapp,omitempty"`
	Comments      string   `json:"additionalComments,omitempty"`
}

// Choices offered by the get-started form.
var (
	RentalItemChoices    = []string{"Carpets/Rugs", "Lamps", "Plants", "Statement décor"}
	MonthlyBudgetChoices = []string{"₹499", "₹1499"}
	UsageLocationChoices = []string{"Home", "Office", "Airbnb"}
)

// Message kinds understood by delivery providers.
const (
	MessageContact        = "contact"
	MessageInquiry        = "inquiry"
	MessageInquiryReceipt = "inquiry-receipt"
	MessageNewsletter     = "newsletter"
)

// Message is a prepared, already validated payload for the delivery provider.
type Message struct {
	Kind   string            `json:"kind"`
	To     string            `json:"to,omitempty"`
	Params map[string]string `json:"params"`
}
