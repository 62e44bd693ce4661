package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"horti-admin/internal/domain"
)

type ChildKind string

const (
	ChildNew      ChildKind = "new"
	ChildExisting ChildKind = "existing"
)

// ChildRef tags a nested payload item as a row to insert or to update by id.
type ChildRef struct {
	Kind ChildKind `json:"kind" binding:"required,oneof=new existing"`
	ID   uint      `json:"id" binding:"required_if=Kind existing"`
}

func (r ChildRef) Ref() ChildRef { return r }

// DocumentRef points at a previously uploaded file.
type DocumentRef struct {
	ID   uint   `json:"id" binding:"required"`
	Name string `json:"name"`
}

func documentID(d *DocumentRef) *uint {
	if d == nil {
		return nil
	}
	id := d.ID
	return &id
}

// NullableNumber accepts a JSON number, a numeric string, "" or null.
// Empty input decodes to a nil Value.
type NullableNumber[T int | float64] struct {
	Value *T
}

func (n *NullableNumber[T]) UnmarshalJSON(b []byte) error {
	n.Value = nil
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid number %s", s)
		}
		if s = strings.TrimSpace(unq); s == "" {
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid number %q", s)
	}
	v := T(f)
	if float64(v) != f {
		return fmt.Errorf("%q is not an integer", s)
	}
	n.Value = &v
	return nil
}

func (n NullableNumber[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(*n.Value), 'f', -1, 64)), nil
}

type TransferDetailsInput struct {
	ChildRef
	Name                           string                 `json:"name" binding:"required"`
	Favourite                      bool                   `json:"favourite"`
	Beneficiary                    string                 `json:"beneficiary" binding:"required"`
	BeneficiaryAddress             *string                `json:"beneficiaryAddress"`
	Bank                           string                 `json:"bank" binding:"required"`
	BankAddress                    *string                `json:"bankAddress"`
	BankAccountNumber              string                 `json:"bankAccountNumber" binding:"required"`
	BankAccountType                domain.BankAccountType `json:"bankAccountType" binding:"required,oneof=CHECKING SAVINGS"`
	BankSwift                      *string                `json:"bankSwift"`
	CorrespondentBank              *string                `json:"correspondentBank"`
	CorrespondentBankAddress       *string                `json:"correspondentBankAddress"`
	CorrespondentBankAccountNumber *string                `json:"correspondentBankAccountNumber"`
	CorrespondentBankSwift         *string                `json:"correspondentBankSwift"`
	Document                       *DocumentRef           `json:"document"`
}

func (in TransferDetailsInput) row(plantationID, legalEntityID uint) domain.PlantationTransferDetails {
	return domain.PlantationTransferDetails{
		Name:                           in.Name,
		Favourite:                      in.Favourite,
		Beneficiary:                    in.Beneficiary,
		BeneficiaryAddress:             in.BeneficiaryAddress,
		Bank:                           in.Bank,
		BankAddress:                    in.BankAddress,
		BankAccountNumber:              in.BankAccountNumber,
		BankAccountType:                in.BankAccountType,
		BankSwift:                      in.BankSwift,
		CorrespondentBank:              in.CorrespondentBank,
		CorrespondentBankAddress:       in.CorrespondentBankAddress,
		CorrespondentBankAccountNumber: in.CorrespondentBankAccountNumber,
		CorrespondentBankSwift:         in.CorrespondentBankSwift,
		PlantationID:                   plantationID,
		PlantationLegalEntityID:        legalEntityID,
		DocumentID:                     documentID(in.Document),
	}
}

type ChecksInput struct {
	ChildRef
	Name        string       `json:"name" binding:"required"`
	Beneficiary string       `json:"beneficiary" binding:"required"`
	Favourite   bool         `json:"favourite"`
	Document    *DocumentRef `json:"document"`
}

func (in ChecksInput) row(plantationID, legalEntityID uint) domain.PlantationChecks {
	return domain.PlantationChecks{
		Name:                    in.Name,
		Beneficiary:             in.Beneficiary,
		Favourite:               in.Favourite,
		PlantationID:            plantationID,
		PlantationLegalEntityID: legalEntityID,
		DocumentID:              documentID(in.Document),
	}
}

type LegalEntityInput struct {
	ChildRef
	Name            string                 `json:"name" binding:"required"`
	Code            string                 `json:"code" binding:"required"`
	LegalAddress    string                 `json:"legalAddress" binding:"required"`
	ActualAddress   string                 `json:"actualAddress" binding:"required"`
	TransferDetails []TransferDetailsInput `json:"transferDetails" binding:"required,dive"`
	Checks          []ChecksInput          `json:"checks" binding:"required,dive"`
}

func (in LegalEntityInput) row(plantationID, _ uint) domain.PlantationLegalEntity {
	return domain.PlantationLegalEntity{
		Name:          in.Name,
		Code:          in.Code,
		LegalAddress:  in.LegalAddress,
		ActualAddress: in.ActualAddress,
		PlantationID:  plantationID,
	}
}

type ContactInput struct {
	ChildRef
	Name       string            `json:"name" binding:"required"`
	Email      string            `json:"email" binding:"required"`
	Whatsapp   string            `json:"whatsapp" binding:"required"`
	Telegram   string            `json:"telegram" binding:"required"`
	Skype      string            `json:"skype" binding:"required"`
	Position   string            `json:"position" binding:"required"`
	Department domain.Department `json:"department" binding:"required,oneof=SALES ACCOUNTING MANAGEMENT LOGISTICS OTHER"`
}

func (in ContactInput) row(plantationID, _ uint) domain.PlantationContacts {
	return domain.PlantationContacts{
		Name:         in.Name,
		Email:        in.Email,
		Whatsapp:     in.Whatsapp,
		Telegram:     in.Telegram,
		Skype:        in.Skype,
		Position:     in.Position,
		Department:   in.Department,
		PlantationID: plantationID,
	}
}

type PlantationInput struct {
	Name           string                  `json:"name" binding:"required,max=191"`
	Country        string                  `json:"country" binding:"required"`
	Comments       *string                 `json:"comments"`
	DeliveryMethod domain.DeliveryMethod   `json:"deliveryMethod" binding:"omitempty,oneof=EMAIL COURIER OFFICE"`
	DeliveryInfo   string                  `json:"deliveryInfo"`
	TermsOfPayment domain.TermsOfPayment   `json:"termsOfPayment" binding:"omitempty,oneof=PREPAID POSTPAID"`
	PostpaidCredit NullableNumber[float64] `json:"postpaidCredit"`
	PostpaidDays   NullableNumber[int]     `json:"postpaidDays"`
	LegalEntities  []LegalEntityInput      `json:"legalEntities" binding:"required,dive"`
	Contacts       []ContactInput          `json:"contacts" binding:"required,dive"`
}

func (in PlantationInput) plantation() domain.Plantation {
	return domain.Plantation{
		Name:           strings.TrimSpace(in.Name),
		Country:        in.Country,
		Comments:       in.Comments,
		DeliveryMethod: in.DeliveryMethod,
		DeliveryInfo:   in.DeliveryInfo,
		TermsOfPayment: in.TermsOfPayment,
		PostpaidCredit: in.PostpaidCredit.Value,
		PostpaidDays:   in.PostpaidDays.Value,
	}
}

// checkNames rejects names that are blank once trimmed.
func (in PlantationInput) checkNames() error {
	var bad []string
	blank := func(path, name string) {
		if strings.TrimSpace(name) == "" {
			bad = append(bad, path+" should not be empty")
		}
	}
	blank("name", in.Name)
	for i, le := range in.LegalEntities {
		blank(fmt.Sprintf("legalEntities[%d].name", i), le.Name)
	}
	for i, c := range in.Contacts {
		blank(fmt.Sprintf("contacts[%d].name", i), c.Name)
	}
	if len(bad) > 0 {
		return domain.BadRequest(domain.CodeValidationFailed, bad...)
	}
	return nil
}

// requireNew rejects create payloads that reference persisted children.
func (in PlantationInput) requireNew() error {
	var bad []string
	check := func(path string, r ChildRef) {
		if r.Kind != ChildNew {
			bad = append(bad, path+": only new children can be created")
		}
	}
	for i, le := range in.LegalEntities {
		check(fmt.Sprintf("legalEntities[%d]", i), le.ChildRef)
		for j, td := range le.TransferDetails {
			check(fmt.Sprintf("legalEntities[%d].transferDetails[%d]", i, j), td.ChildRef)
		}
		for j, ch := range le.Checks {
			check(fmt.Sprintf("legalEntities[%d].checks[%d]", i, j), ch.ChildRef)
		}
	}
	for i, c := range in.Contacts {
		check(fmt.Sprintf("contacts[%d]", i), c.ChildRef)
	}
	if len(bad) > 0 {
		return domain.BadRequest(domain.CodeValidationFailed, bad...)
	}
	return nil
}
