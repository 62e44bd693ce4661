package handler

import (
	"time"

	"horti-admin/internal/domain"
)

// Response projections. The tombstone flag, parent keys and storage paths
// never leave the server.

func mapSlice[T, D any](in []T, f func(T) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

type SortDTO struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	CategoryID uint       `json:"categoryId"`
	DeletedAt  *time.Time `json:"deletedAt"`
	DeletedBy  *uint      `json:"deletedBy"`
}

func sortDTO(s domain.Sort) SortDTO {
	return SortDTO{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, DeletedAt: s.DeletedAt, DeletedBy: s.DeletedBy}
}

type CategoryDTO struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	GroupID   uint       `json:"groupId"`
	DeletedAt *time.Time `json:"deletedAt"`
	DeletedBy *uint      `json:"deletedBy"`
	Sorts     []SortDTO  `json:"sorts,omitempty"`
}

func categoryDTO(c domain.Category) CategoryDTO {
	dto := CategoryDTO{ID: c.ID, Name: c.Name, GroupID: c.GroupID, DeletedAt: c.DeletedAt, DeletedBy: c.DeletedBy}
	if c.Sorts != nil {
		dto.Sorts = mapSlice(c.Sorts, sortDTO)
	}
	return dto
}

type GroupDTO struct {
	ID         uint          `json:"id"`
	Name       string        `json:"name"`
	DeletedAt  *time.Time    `json:"deletedAt"`
	DeletedBy  *uint         `json:"deletedBy"`
	Categories []CategoryDTO `json:"categories,omitempty"`
}

func groupDTO(g domain.Group) GroupDTO {
	dto := GroupDTO{ID: g.ID, Name: g.Name, DeletedAt: g.DeletedAt, DeletedBy: g.DeletedBy}
	if g.Categories != nil {
		dto.Categories = mapSlice(g.Categories, categoryDTO)
	}
	return dto
}

type UploadDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func uploadDTO(u *domain.Upload) *UploadDTO {
	if u == nil {
		return nil
	}
	return &UploadDTO{ID: u.ID, Name: u.Name}
}

type TransferDetailsDTO struct {
	ID                             uint                   `json:"id"`
	Name                           string                 `json:"name"`
	Favourite                      bool                   `json:"favourite"`
	Beneficiary                    string                 `json:"beneficiary"`
	BeneficiaryAddress             *string                `json:"beneficiaryAddress"`
	Bank                           string                 `json:"bank"`
	BankAddress                    *string                `json:"bankAddress"`
	BankAccountNumber              string                 `json:"bankAccountNumber"`
	BankAccountType                domain.BankAccountType `json:"bankAccountType"`
	BankSwift                      *string                `json:"bankSwift"`
	CorrespondentBank              *string                `json:"correspondentBank"`
	CorrespondentBankAddress       *string                `json:"correspondentBankAddress"`
	CorrespondentBankAccountNumber *string                `json:"correspondentBankAccountNumber"`
	CorrespondentBankSwift         *string                `json:"correspondentBankSwift"`
	PlantationLegalEntityID        uint                   `json:"plantationLegalEntityId"`
	DocumentID                     *uint                  `json:"documentId"`
	Document                       *UploadDTO             `json:"document"`
}

func transferDetailsDTO(d domain.PlantationTransferDetails) TransferDetailsDTO {
	return TransferDetailsDTO{
		ID:                             d.ID,
		Name:                           d.Name,
		Favourite:                      d.Favourite,
		Beneficiary:                    d.Beneficiary,
		BeneficiaryAddress:             d.BeneficiaryAddress,
		Bank:                           d.Bank,
		BankAddress:                    d.BankAddress,
		BankAccountNumber:              d.BankAccountNumber,
		BankAccountType:                d.BankAccountType,
		BankSwift:                      d.BankSwift,
		CorrespondentBank:              d.CorrespondentBank,
		CorrespondentBankAddress:       d.CorrespondentBankAddress,
		CorrespondentBankAccountNumber: d.CorrespondentBankAccountNumber,
		CorrespondentBankSwift:         d.CorrespondentBankSwift,
		PlantationLegalEntityID:        d.PlantationLegalEntityID,
		DocumentID:                     d.DocumentID,
		Document:                       uploadDTO(d.Document),
	}
}

type ChecksDTO struct {
	ID                      uint       `json:"id"`
	Name                    string     `json:"name"`
	Beneficiary             string     `json:"beneficiary"`
	Favourite               bool       `json:"favourite"`
	PlantationLegalEntityID uint       `json:"plantationLegalEntityId"`
	DocumentID              *uint      `json:"documentId"`
	Document                *UploadDTO `json:"document"`
}

func checksDTO(c domain.PlantationChecks) ChecksDTO {
	return ChecksDTO{
		ID:                      c.ID,
		Name:                    c.Name,
		Beneficiary:             c.Beneficiary,
		Favourite:               c.Favourite,
		PlantationLegalEntityID: c.PlantationLegalEntityID,
		DocumentID:              c.DocumentID,
		Document:                uploadDTO(c.Document),
	}
}

type LegalEntityDTO struct {
	ID              uint                 `json:"id"`
	Name            string               `json:"name"`
	Code            string               `json:"code"`
	LegalAddress    string               `json:"legalAddress"`
	ActualAddress   string               `json:"actualAddress"`
	TransferDetails []TransferDetailsDTO `json:"transferDetails"`
	Checks          []ChecksDTO          `json:"checks"`
}

func legalEntityDTO(le domain.PlantationLegalEntity) LegalEntityDTO {
	return LegalEntityDTO{
		ID:              le.ID,
		Name:            le.Name,
		Code:            le.Code,
		LegalAddress:    le.LegalAddress,
		ActualAddress:   le.ActualAddress,
		TransferDetails: mapSlice(le.TransferDetails, transferDetailsDTO),
		Checks:          mapSlice(le.Checks, checksDTO),
	}
}

type ContactDTO struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Whatsapp   string            `json:"whatsapp"`
	Telegram   string            `json:"telegram"`
	Skype      string            `json:"skype"`
	Position   string            `json:"position"`
	Department domain.Department `json:"department"`
}

func contactDTO(c domain.PlantationContacts) ContactDTO {
	return ContactDTO{
		ID: c.ID, Name: c.Name, Email: c.Email, Whatsapp: c.Whatsapp,
		Telegram: c.Telegram, Skype: c.Skype, Position: c.Position, Department: c.Department,
	}
}

// plantationFields is shared by the full and thin projections.
type plantationFields struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	Country        string                `json:"country"`
	Comments       *string               `json:"comments"`
	DeliveryMethod domain.DeliveryMethod `json:"deliveryMethod"`
	DeliveryInfo   string                `json:"deliveryInfo"`
	TermsOfPayment domain.TermsOfPayment `json:"termsOfPayment"`
	PostpaidCredit *float64              `json:"postpaidCredit"`
	PostpaidDays   *int                  `json:"postpaidDays"`
	DeletedAt      *time.Time            `json:"deletedAt"`
	DeletedBy      *uint                 `json:"deletedBy"`
}

func fieldsOf(p domain.Plantation) plantationFields {
	return plantationFields{
		ID:             p.ID,
		Name:           p.Name,
		Country:        p.Country,
		Comments:       p.Comments,
		DeliveryMethod: p.DeliveryMethod,
		DeliveryInfo:   p.DeliveryInfo,
		TermsOfPayment: p.TermsOfPayment,
		PostpaidCredit: p.PostpaidCredit,
		PostpaidDays:   p.PostpaidDays,
		DeletedAt:      p.DeletedAt,
		DeletedBy:      p.DeletedBy,
	}
}

type PlantationDTO struct {
	plantationFields
	LegalEntities   []LegalEntityDTO     `json:"legalEntities"`
	Contacts        []ContactDTO         `json:"contacts"`
	TransferDetails []TransferDetailsDTO `json:"transferDetails"`
	Checks          []ChecksDTO          `json:"checks"`
}

func plantationDTO(p domain.Plantation) PlantationDTO {
	return PlantationDTO{
		plantationFields: fieldsOf(p),
		LegalEntities:    mapSlice(p.LegalEntities, legalEntityDTO),
		Contacts:         mapSlice(p.Contacts, contactDTO),
		TransferDetails:  mapSlice(p.TransferDetails, transferDetailsDTO),
		Checks:           mapSlice(p.Checks, checksDTO),
	}
}

// PlantationThinDTO is the search row: legal entities without their nested rows.
type PlantationThinDTO struct {
	plantationFields
	LegalEntities      []LegalEntityDTO `json:"legalEntities"`
	LegalEntitiesNames []string         `json:"legalEntitiesNames"`
}

func plantationThinDTO(p domain.Plantation) PlantationThinDTO {
	dto := PlantationThinDTO{plantationFields: fieldsOf(p), LegalEntitiesNames: make([]string, 0, len(p.LegalEntities))}
	dto.LegalEntities = mapSlice(p.LegalEntities, func(le domain.PlantationLegalEntity) LegalEntityDTO {
		return LegalEntityDTO{ID: le.ID, Name: le.Name, Code: le.Code, LegalAddress: le.LegalAddress, ActualAddress: le.ActualAddress}
	})
	for _, le := range p.LegalEntities {
		dto.LegalEntitiesNames = append(dto.LegalEntitiesNames, le.Name)
	}
	return dto
}

type UserDTO struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func userDTO(u domain.User) UserDTO {
	return UserDTO{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}
