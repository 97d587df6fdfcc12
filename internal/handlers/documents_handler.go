package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order-pipeline/internal/documents"
)

func (a *API) uploadDocument(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Param("id")

	order, err := a.Engine.GetOrder(ctx, orderID)
	if err != nil {
		a.writeError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_file", "msg": "multipart field 'file' is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_file", "msg": err.Error()})
		return
	}
	defer file.Close()

	key, err := a.Documents.Upload(ctx, order.OrderID, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fileKey": key,
		"orderId": order.OrderID,
		"bucket":  a.Documents.Bucket(),
	})
}

func (a *API) listDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	orderID := c.Query("orderId")

	var (
		docs []documents.Document
		err  error
	)
	if orderID == "" {
		docs, err = a.Documents.List(ctx)
	} else {
		docs, err = a.Documents.ListByOrder(ctx, orderID)
	}
	if err != nil {
		a.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":     len(docs),
		"bucket":    a.Documents.Bucket(),
		"documents": docs,
	})
}

func (a *API) listOrderDocuments(c *gin.Context) {
	ctx := c.Request.Context()

	order, err := a.Engine.GetOrder(ctx, c.Param("id"))
	if err != nil {
		a.writeError(c, err)
		return
	}

	docs, err := a.Documents.ListByOrder(ctx, order.OrderID)
	if err != nil {
		a.writeError(c, err)
		return
	}

	for i := range docs {
		url, perr := a.Documents.PresignGet(ctx, docs[i].Key)
		if perr != nil {
			a.Log.Warn("failed to presign document URL", "key", docs[i].Key, "error", perr)
			continue
		}
		docs[i].URL = url
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId": order.OrderID,
		"order": gin.H{
			"status":       order.Status,
			"customerName": order.CustomerName,
			"createdAt":    order.CreatedAt,
		},
		"total":     len(docs),
		"documents": docs,
	})
}

func (a *API) listBuckets(c *gin.Context) {
	buckets, err := a.Documents.Buckets(c.Request.Context())
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":   len(buckets),
		"buckets": buckets,
	})
}
