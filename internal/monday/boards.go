package monday

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thenoetrevino/boardframe/internal/models"
)

// ItemsPage is one page of a board's items. An empty Cursor means the last page.
type ItemsPage struct {
	Cursor string         `json:"cursor"`
	Items  []*models.Item `json:"items"`
}

// CreateItemInput holds the arguments of create_item
type CreateItemInput struct {
	BoardID               string
	GroupID               string
	Name                  string
	ColumnValues          map[string]any
	CreateLabelsIfMissing bool
}

// GetBoard fetches a board's metadata: name, kind, columns and groups
func (c *Client) GetBoard(ctx context.Context, boardID string) (*models.Board, error) {
	var out struct {
		Boards []*models.Board `json:"boards"`
	}
	if err := c.Execute(ctx, boardQuery, map[string]any{"ids": []string{boardID}}, &out); err != nil {
		return nil, err
	}
	if len(out.Boards) == 0 || out.Boards[0] == nil {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, boardID)
	}
	return out.Boards[0], nil
}

// ItemsPage fetches the first page of a board's items
func (c *Client) ItemsPage(ctx context.Context, boardID string, limit int, withSubitems bool) (*ItemsPage, error) {
	var out struct {
		Boards []struct {
			ItemsPage *ItemsPage `json:"items_page"`
		} `json:"boards"`
	}
	vars := map[string]any{"ids": []string{boardID}, "limit": limit}
	if err := c.Execute(ctx, itemsPageQuery(withSubitems), vars, &out); err != nil {
		return nil, err
	}
	if len(out.Boards) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, boardID)
	}
	if out.Boards[0].ItemsPage == nil {
		return &ItemsPage{}, nil
	}
	return out.Boards[0].ItemsPage, nil
}

// NextItemsPage fetches the page after cursor
func (c *Client) NextItemsPage(ctx context.Context, cursor string, limit int, withSubitems bool) (*ItemsPage, error) {
	var out struct {
		NextItemsPage *ItemsPage `json:"next_items_page"`
	}
	vars := map[string]any{"cursor": cursor, "limit": limit}
	if err := c.Execute(ctx, nextItemsPageQuery(withSubitems), vars, &out); err != nil {
		return nil, err
	}
	if out.NextItemsPage == nil {
		return &ItemsPage{}, nil
	}
	return out.NextItemsPage, nil
}

// encodeColumnValues turns a column_values map into the JSON string the API expects
func encodeColumnValues(values map[string]any) (string, error) {
	if values == nil {
		values = map[string]any{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode column values: %w", err)
	}
	return string(b), nil
}

type idResult struct {
	ID string `json:"id"`
}

// CreateItem creates an item and returns its ID
func (c *Client) CreateItem(ctx context.Context, in CreateItemInput) (string, error) {
	values, err := encodeColumnValues(in.ColumnValues)
	if err != nil {
		return "", err
	}
	vars := map[string]any{
		"board":  in.BoardID,
		"name":   in.Name,
		"values": values,
		"labels": in.CreateLabelsIfMissing,
	}
	if in.GroupID != "" {
		vars["group"] = in.GroupID
	}
	var out struct {
		CreateItem *idResult `json:"create_item"`
	}
	if err := c.Execute(ctx, createItemMutation, vars, &out); err != nil {
		return "", err
	}
	if out.CreateItem == nil {
		return "", fmt.Errorf("create_item returned no item")
	}
	return out.CreateItem.ID, nil
}

// CreateSubitem creates a subitem under parentID and returns its ID
func (c *Client) CreateSubitem(ctx context.Context, parentID, name string, columnValues map[string]any, createLabels bool) (string, error) {
	values, err := encodeColumnValues(columnValues)
	if err != nil {
		return "", err
	}
	vars := map[string]any{
		"parent": parentID,
		"name":   name,
		"values": values,
		"labels": createLabels,
	}
	var out struct {
		CreateSubitem *idResult `json:"create_subitem"`
	}
	if err := c.Execute(ctx, createSubitemMutation, vars, &out); err != nil {
		return "", err
	}
	if out.CreateSubitem == nil {
		return "", fmt.Errorf("create_subitem returned no item")
	}
	return out.CreateSubitem.ID, nil
}

// ChangeColumnValues updates several columns of an item at once. A "name" key
// renames the item.
func (c *Client) ChangeColumnValues(ctx context.Context, boardID, itemID string, columnValues map[string]any, createLabels bool) error {
	values, err := encodeColumnValues(columnValues)
	if err != nil {
		return err
	}
	vars := map[string]any{
		"board":  boardID,
		"item":   itemID,
		"values": values,
		"labels": createLabels,
	}
	return c.Execute(ctx, changeColumnValuesMutation, vars, nil)
}

// DeleteItem permanently deletes an item
func (c *Client) DeleteItem(ctx context.Context, itemID string) error {
	return c.Execute(ctx, deleteItemMutation, map[string]any{"item": itemID}, nil)
}

// ArchiveItem archives an item; archived items can be restored from the board's archive
func (c *Client) ArchiveItem(ctx context.Context, itemID string) error {
	return c.Execute(ctx, archiveItemMutation, map[string]any{"item": itemID}, nil)
}

// CreateBoard creates an empty board. workspaceID may be empty for the main workspace.
func (c *Client) CreateBoard(ctx context.Context, name, kind, workspaceID string) (*models.Board, error) {
	if kind == "" {
		kind = "public"
	}
	vars := map[string]any{"name": name, "kind": kind}
	if workspaceID != "" {
		vars["workspace"] = workspaceID
	}
	var out struct {
		CreateBoard *models.Board `json:"create_board"`
	}
	if err := c.Execute(ctx, createBoardMutation, vars, &out); err != nil {
		return nil, err
	}
	if out.CreateBoard == nil {
		return nil, fmt.Errorf("create_board returned no board")
	}
	out.CreateBoard.WorkspaceID = workspaceID
	return out.CreateBoard, nil
}

// CreateColumn adds a column to a board
func (c *Client) CreateColumn(ctx context.Context, boardID, title string, colType models.ColumnType) (*models.Column, error) {
	vars := map[string]any{"board": boardID, "title": title, "type": string(colType)}
	var out struct {
		CreateColumn *models.Column `json:"create_column"`
	}
	if err := c.Execute(ctx, createColumnMutation, vars, &out); err != nil {
		return nil, err
	}
	if out.CreateColumn == nil {
		return nil, fmt.Errorf("create_column returned no column")
	}
	return out.CreateColumn, nil
}

// CreateGroup adds a group to a board
func (c *Client) CreateGroup(ctx context.Context, boardID, name string) (*models.Group, error) {
	var out struct {
		CreateGroup *models.Group `json:"create_group"`
	}
	if err := c.Execute(ctx, createGroupMutation, map[string]any{"board": boardID, "name": name}, &out); err != nil {
		return nil, err
	}
	if out.CreateGroup == nil {
		return nil, fmt.Errorf("create_group returned no group")
	}
	return out.CreateGroup, nil
}
