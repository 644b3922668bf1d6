package services

import (
	"errors"

	"gamestore/models"

	"gorm.io/gorm"
)

type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

type CreateCompanyRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateCompany registers a company for the given owner. Companies always
// start unapproved; publishing rights are granted by an administrator.
func (s *CompanyService) CreateCompany(ownerID uint, req *CreateCompanyRequest) (*models.Company, error) {
	var existing models.Company
	err := s.db.Where("owner_id = ?", ownerID).First(&existing).Error
	if err == nil {
		return nil, models.ErrCompanyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	company := models.Company{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		IsApproved:  false,
	}
	if err := s.db.Create(&company).Error; err != nil {
		return nil, err
	}

	return &company, nil
}

func (s *CompanyService) GetCompanies() ([]models.Company, error) {
	var companies []models.Company
	if err := s.db.Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// GetCompaniesForReview returns companies for the admin triage view:
// unapproved first, newest first within each group.
func (s *CompanyService) GetCompaniesForReview() ([]models.Company, error) {
	var companies []models.Company
	err := s.db.Order("is_approved ASC").Order("created_at DESC").Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *CompanyService) GetCompanyByOwner(ownerID uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.Where("owner_id = ?", ownerID).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCompanyNotFound
		}
		return nil, err
	}
	return &company, nil
}

// SetApproved flips the admin approval flag on a company.
func (s *CompanyService) SetApproved(companyID uint, approved bool) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCompanyNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&company).Update("is_approved", approved).Error; err != nil {
		return nil, err
	}

	return &company, nil
}
