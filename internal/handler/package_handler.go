package handler

import (
	app_errors "pkgstats/internal/errors"
	"pkgstats/internal/models"
	"pkgstats/internal/response"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// CreatePackageRequest defines the payload for registering a package.
type CreatePackageRequest struct {
	Name     string            `json:"name" binding:"required"`
	Metadata datatypes.JSONMap `json:"metadata"`
}

// CreatePackage registers a new package.
// POST /api/packages
func (s *Server) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	pkg := models.Package{Name: req.Name, Metadata: req.Metadata}
	if err := s.DB.Create(&pkg).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.Success(c, pkg)
}

// ListPackages returns packages, paginated.
// GET /api/packages
func (s *Server) ListPackages(c *gin.Context) {
	query := s.DB.Model(&models.Package{}).Order("name ASC")
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}

	var packages []models.Package
	result, err := response.Paginate(c, query, &packages)
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.Success(c, result)
}

// GetPackage returns one package with its versions.
// GET /api/packages/:name
func (s *Server) GetPackage(c *gin.Context) {
	var pkg models.Package
	err := s.DB.Preload("Versions").Where("name = ?", c.Param("name")).First(&pkg).Error
	if err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.Success(c, pkg)
}

// CreateVersionRequest defines the payload for publishing a version.
type CreateVersionRequest struct {
	Num string `json:"num" binding:"required"`
}

// CreateVersion publishes a new version of an existing package.
// POST /api/packages/:name/versions
func (s *Server) CreateVersion(c *gin.Context) {
	var req CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	var pkg models.Package
	if err := s.DB.Where("name = ?", c.Param("name")).First(&pkg).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	version := models.Version{PackageID: pkg.ID, Num: req.Num}
	if err := s.DB.Create(&version).Error; err != nil {
		response.Error(c, app_errors.ParseDBError(err))
		return
	}

	response.Success(c, version)
}
