package siteweb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/siyuanink/siteweb/apiclient"
	"github.com/siyuanink/siteweb/gallery"
	"github.com/siyuanink/siteweb/views"
)

const dateLayout = "2006-01-02"

func (a *App) registerLifeAdmin(g *echo.Group) {
	p := lifePanel
	key := a.requireKey(p)

	g.GET("", a.handleLifeAdmin)
	g.POST("login/", a.handleAdminLogin(p))
	g.POST("logout/", handleAdminLogout(p))

	g.POST("photos/", a.handlePhotoCreate, key)
	g.POST("photos/:id/", a.handlePhotoUpdate, key)
	g.GET("photos/:id/delete/", a.handlePhotoDelete, key)
	g.POST("photos/:id/delete/", a.handlePhotoDelete, key)
	g.POST("photos/:id/images/", a.handlePhotoImagesUpload, key)
	g.POST("photos/:id/images/:image/cover/", a.handleSetCover, key)
	g.GET("photos/:id/images/:image/delete/", a.handlePhotoImageDelete, key)
	g.POST("photos/:id/images/:image/delete/", a.handlePhotoImageDelete, key)
}

func lifeEditURL(id int64) string {
	return lifePanel.Base + "?edit=" + strconv.FormatInt(id, 10)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

// photoIDs reads the :id and optional :image route params.
func photoIDs(c echo.Context) (id, imageID int64, ok bool) {
	id, ok = parseID(c.Param("id"))
	if !ok {
		return 0, 0, false
	}
	if raw := c.Param("image"); raw != "" {
		if imageID, ok = parseID(raw); !ok {
			return 0, 0, false
		}
	}
	return id, imageID, true
}

func (a *App) handleLifeAdmin(c echo.Context) error {
	key := adminKey(c, lifePanel.sessKey)
	if key == "" {
		return a.renderLogin(c, lifePanel, "")
	}
	api := a.API.WithAPIKey(key)
	data := views.AdminLifeData{Panel: lifePanel.AdminPanel}

	switch raw := c.QueryParam("edit"); {
	case raw != "":
		id, ok := parseID(raw)
		if !ok {
			return redirectBack(c, lifePanel.Base)
		}
		photo, err := api.GetPhoto(c.Request().Context(), id)
		if err != nil {
			if errors.Is(err, apiclient.ErrNotFound) {
				if ferr := flashError(c, "Photo set not found"); ferr != nil {
					return ferr
				}
				return redirectBack(c, lifePanel.Base)
			}
			if apiclient.IsUnauthorized(err) {
				return a.gateFailure(c, lifePanel, err)
			}
			c.Logger().Warnf("get photo %d: %v", id, err)
			return a.renderLifeAdmin(c, api, data, views.Flash{Kind: "error", Text: apiclient.Message(err, "Failed to load photo set")})
		}
		data.Editing = photo.ID
		data.ShowForm = true
		data.Form = views.PhotoForm{
			Title:       photo.Title,
			Description: photo.Description,
			Content:     photo.Content,
			Date:        photo.Date,
		}
		data.Images = gallery.SortImages(photo.Images)
		for i := range data.Images {
			data.Images[i].URL = a.assetURL(data.Images[i].URL)
		}
	case c.QueryParam("new") != "":
		data.ShowForm = true
		data.Form.Date = a.now().Format(dateLayout)
	}
	return a.renderLifeAdmin(c, api, data)
}

// renderLifeAdmin loads the admin photo list, which doubles as the key check.
func (a *App) renderLifeAdmin(c echo.Context, api *apiclient.Client, data views.AdminLifeData, flashes ...views.Flash) error {
	photos, err := api.AdminListPhotos(c.Request().Context())
	if err != nil {
		return a.gateFailure(c, lifePanel, err)
	}
	data.Photos = photos
	ch := withFlashes(a.chrome(c, "admin", lifePanel.meta()), flashes...)
	return Render(c, views.AdminLife(ch, data))
}

func photoFormOf(c echo.Context) views.PhotoForm {
	return views.PhotoForm{
		Title:       strings.TrimSpace(c.FormValue("title")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Content:     c.FormValue("content"),
		Date:        strings.TrimSpace(c.FormValue("date")),
	}
}

// validatePhoto fills the default date and checks the form before sending.
func (a *App) validatePhoto(f *views.PhotoForm) string {
	if f.Title == "" {
		return "Title is required"
	}
	if f.Date == "" {
		f.Date = a.now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, f.Date); err != nil {
		return "Invalid date format. Use YYYY-MM-DD."
	}
	return ""
}

func photoInput(f views.PhotoForm) apiclient.PhotoInput {
	return apiclient.PhotoInput{
		Title:       f.Title,
		Description: apiclient.Nullable(f.Description),
		Content:     apiclient.Nullable(f.Content),
		Date:        f.Date,
	}
}

func (a *App) handlePhotoCreate(c echo.Context) error {
	api := keyedAPI(c)
	form := photoFormOf(c)
	if msg := a.validatePhoto(&form); msg != "" {
		return a.renderLifeAdmin(c, api, views.AdminLifeData{
			Panel:    lifePanel.AdminPanel,
			ShowForm: true,
			Form:     form,
		}, views.Flash{Kind: "error", Text: msg})
	}
	photo, err := api.CreatePhoto(c.Request().Context(), photoInput(form))
	if err != nil {
		return a.adminError(c, lifePanel, err, "Failed to create photo set", lifePanel.Base+"?new=1")
	}
	if err := flashSuccess(c, "Photo set created"); err != nil {
		return err
	}
	return redirectBack(c, lifeEditURL(photo.ID))
}

func (a *App) handlePhotoUpdate(c echo.Context) error {
	id, _, ok := photoIDs(c)
	if !ok {
		return a.renderNotFound(c)
	}
	api := keyedAPI(c)
	form := photoFormOf(c)
	if msg := a.validatePhoto(&form); msg != "" {
		return a.renderLifeAdmin(c, api, views.AdminLifeData{
			Panel:    lifePanel.AdminPanel,
			Editing:  id,
			ShowForm: true,
			Form:     form,
		}, views.Flash{Kind: "error", Text: msg})
	}
	if _, err := api.UpdatePhoto(c.Request().Context(), id, photoInput(form)); err != nil {
		return a.adminError(c, lifePanel, err, "Failed to save photo set", lifeEditURL(id))
	}
	if err := flashSuccess(c, "Photo set saved"); err != nil {
		return err
	}
	return redirectBack(c, lifeEditURL(id))
}

func (a *App) handlePhotoDelete(c echo.Context) error {
	id, _, ok := photoIDs(c)
	if !ok {
		return a.renderNotFound(c)
	}
	ok, err := a.confirmed(c, lifePanel, "Delete photo set",
		fmt.Sprintf("Delete photo set %d and all of its images? This cannot be undone.", id), lifeEditURL(id))
	if !ok {
		return err
	}
	if err := keyedAPI(c).DeletePhoto(c.Request().Context(), id); err != nil {
		return a.adminError(c, lifePanel, err, "Failed to delete photo set", lifePanel.Base)
	}
	if err := flashSuccess(c, "Photo set deleted"); err != nil {
		return err
	}
	return redirectBack(c, lifePanel.Base)
}

// handlePhotoImagesUpload prepares every selected file, then sends the valid
// ones one after another. Files rejected locally count as failures.
func (a *App) handlePhotoImagesUpload(c echo.Context) error {
	id, _, ok := photoIDs(c)
	if !ok {
		return a.renderNotFound(c)
	}
	back := lifeEditURL(id)

	var report apiclient.UploadReport
	form, err := c.MultipartForm()
	if err == nil {
		var uploads []apiclient.Upload
		for _, fh := range form.File["files"] {
			u, err := prepareUpload(fh)
			if err != nil {
				c.Logger().Infof("reject upload for photo %d: %v", id, err)
				report.Fail++
				report.Failed = append(report.Failed, fh.Filename)
				continue
			}
			uploads = append(uploads, u)
		}
		sent := keyedAPI(c).UploadPhotoImages(c.Request().Context(), id, uploads)
		report.Success += sent.Success
		report.Fail += sent.Fail
		report.Failed = append(report.Failed, sent.Failed...)
	}

	flash := flashSuccess
	if report.Fail > 0 || report.Total() == 0 {
		flash = flashError
	}
	if err := flash(c, report.Summary()); err != nil {
		return err
	}
	return redirectBack(c, back)
}

func (a *App) handleSetCover(c echo.Context) error {
	id, imageID, ok := photoIDs(c)
	if !ok {
		return a.renderNotFound(c)
	}
	back := lifeEditURL(id)
	if err := keyedAPI(c).SetCoverImage(c.Request().Context(), id, imageID); err != nil {
		return a.adminError(c, lifePanel, err, "Failed to set cover", back)
	}
	if err := flashSuccess(c, "Cover updated"); err != nil {
		return err
	}
	return redirectBack(c, back)
}

func (a *App) handlePhotoImageDelete(c echo.Context) error {
	id, imageID, ok := photoIDs(c)
	if !ok {
		return a.renderNotFound(c)
	}
	back := lifeEditURL(id)
	ok, err := a.confirmed(c, lifePanel, "Delete image",
		fmt.Sprintf("Delete image %d from photo set %d?", imageID, id), back)
	if !ok {
		return err
	}
	if err := keyedAPI(c).DeletePhotoImage(c.Request().Context(), id, imageID); err != nil {
		return a.adminError(c, lifePanel, err, "Failed to delete image", back)
	}
	if err := flashSuccess(c, "Image deleted"); err != nil {
		return err
	}
	return redirectBack(c, back)
}
