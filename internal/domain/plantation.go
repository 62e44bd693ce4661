package domain

import "time"

type TermsOfPayment string

const (
	TermsPrepaid  TermsOfPayment = "PREPAID"
	TermsPostpaid TermsOfPayment = "POSTPAID"
)

type DeliveryMethod string

const (
	DeliveryEmail   DeliveryMethod = "EMAIL"
	DeliveryCourier DeliveryMethod = "COURIER"
	DeliveryOffice  DeliveryMethod = "OFFICE"
)

type BankAccountType string

const (
	AccountChecking BankAccountType = "CHECKING"
	AccountSavings  BankAccountType = "SAVINGS"
)

type Department string

const (
	DepartmentSales      Department = "SALES"
	DepartmentAccounting Department = "ACCOUNTING"
	DepartmentManagement Department = "MANAGEMENT"
	DepartmentLogistics  Department = "LOGISTICS"
	DepartmentOther      Department = "OTHER"
)

type Plantation struct {
	ID             uint           `gorm:"primaryKey"`
	Name           string         `gorm:"size:191;not null;uniqueIndex"`
	Country        string         `gorm:"size:64;not null;index"`
	Comments       *string        `gorm:"type:text"`
	DeliveryMethod DeliveryMethod `gorm:"size:32"`
	DeliveryInfo   string         `gorm:"size:512"`
	TermsOfPayment TermsOfPayment `gorm:"size:32;index"`
	PostpaidCredit *float64
	PostpaidDays   *int

	LegalEntities   []PlantationLegalEntity     `gorm:"foreignKey:PlantationID"`
	Contacts        []PlantationContacts        `gorm:"foreignKey:PlantationID"`
	TransferDetails []PlantationTransferDetails `gorm:"foreignKey:PlantationID"`
	Checks          []PlantationChecks          `gorm:"foreignKey:PlantationID"`

	SoftDelete
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Plantation) TableName() string { return "plantations" }

type PlantationLegalEntity struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:255;not null"`
	Code          string `gorm:"size:64;not null"`
	LegalAddress  string `gorm:"size:512"`
	ActualAddress string `gorm:"size:512"`
	PlantationID  uint   `gorm:"index;not null"`

	TransferDetails []PlantationTransferDetails `gorm:"foreignKey:PlantationLegalEntityID;constraint:OnDelete:CASCADE"`
	Checks          []PlantationChecks          `gorm:"foreignKey:PlantationLegalEntityID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlantationLegalEntity) TableName() string { return "plantation_legal_entities" }

// Keyed rows expose their primary key to the generic child writers.
type Keyed interface{ Key() uint }

func (e PlantationLegalEntity) Key() uint     { return e.ID }
func (d PlantationTransferDetails) Key() uint { return d.ID }
func (c PlantationChecks) Key() uint          { return c.ID }
func (c PlantationContacts) Key() uint        { return c.ID }

type PlantationTransferDetails struct {
	ID                             uint            `gorm:"primaryKey"`
	Name                           string          `gorm:"size:255;not null"`
	Favourite                      bool            `gorm:"not null;default:false"`
	Beneficiary                    string          `gorm:"size:255;not null"`
	BeneficiaryAddress             *string         `gorm:"size:512"`
	Bank                           string          `gorm:"size:255;not null"`
	BankAddress                    *string         `gorm:"size:512"`
	BankAccountNumber              string          `gorm:"size:64;not null"`
	BankAccountType                BankAccountType `gorm:"size:16;not null"`
	BankSwift                      *string         `gorm:"size:32"`
	CorrespondentBank              *string         `gorm:"size:255"`
	CorrespondentBankAddress       *string         `gorm:"size:512"`
	CorrespondentBankAccountNumber *string         `gorm:"size:64"`
	CorrespondentBankSwift         *string         `gorm:"size:32"`

	PlantationID            uint    `gorm:"index;not null"`
	PlantationLegalEntityID uint    `gorm:"index;not null"`
	DocumentID              *uint   `gorm:"index"`
	Document                *Upload `gorm:"foreignKey:DocumentID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlantationTransferDetails) TableName() string { return "plantation_transfer_details" }

type PlantationChecks struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Beneficiary string `gorm:"size:255;not null"`
	Favourite   bool   `gorm:"not null;default:false"`

	PlantationID            uint    `gorm:"index;not null"`
	PlantationLegalEntityID uint    `gorm:"index;not null"`
	DocumentID              *uint   `gorm:"index"`
	Document                *Upload `gorm:"foreignKey:DocumentID;constraint:OnDelete:SET NULL"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlantationChecks) TableName() string { return "plantation_checks" }

type PlantationContacts struct {
	ID           uint       `gorm:"primaryKey"`
	Name         string     `gorm:"size:255;not null"`
	Email        string     `gorm:"size:255"`
	Whatsapp     string     `gorm:"size:64"`
	Telegram     string     `gorm:"size:64"`
	Skype        string     `gorm:"size:64"`
	Position     string     `gorm:"size:128"`
	Department   Department `gorm:"size:32"`
	PlantationID uint       `gorm:"index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PlantationContacts) TableName() string { return "plantation_contacts" }

// Upload is a stored file descriptor. Uploads are hard-deleted.
type Upload struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null"`
	Mimetype  string `gorm:"size:128"`
	Size      int64
	Path      string `gorm:"size:512;not null"`
	CreatedAt time.Time
}

func (Upload) TableName() string { return "uploads" }

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&User{},
		&Upload{},
		&Group{}, &Category{}, &Sort{},
		&Plantation{}, &PlantationLegalEntity{}, &PlantationContacts{},
		&PlantationTransferDetails{}, &PlantationChecks{},
	}
}
