package monday

import "strings"

const meQuery = `query { me { id name email } }`

const boardQuery = `query ($ids: [ID!]) {
  complexity { query }
  boards(ids: $ids) {
    id
    name
    board_kind
    workspace_id
    columns { id title type settings_str }
    groups { id title }
  }
}`

const columnValueFields = `column_values { id type text value column { title } }`

// itemFields is the selection set for one item, optionally with its subitems
func itemFields(withSubitems bool) string {
	var b strings.Builder
	b.WriteString("id name group { id title } ")
	b.WriteString(columnValueFields)
	if withSubitems {
		b.WriteString(" subitems { id name ")
		b.WriteString(columnValueFields)
		b.WriteString(" }")
	}
	return b.String()
}

func itemsPageQuery(withSubitems bool) string {
	return `query ($ids: [ID!], $limit: Int!) {
  complexity { query }
  boards(ids: $ids) {
    items_page(limit: $limit) { cursor items { ` + itemFields(withSubitems) + ` } }
  }
}`
}

func nextItemsPageQuery(withSubitems bool) string {
	return `query ($cursor: String!, $limit: Int!) {
  complexity { query }
  next_items_page(cursor: $cursor, limit: $limit) { cursor items { ` + itemFields(withSubitems) + ` } }
}`
}

const createItemMutation = `mutation ($board: ID!, $group: String, $name: String!, $values: JSON, $labels: Boolean) {
  create_item(board_id: $board, group_id: $group, item_name: $name, column_values: $values, create_labels_if_missing: $labels) { id }
}`

const createSubitemMutation = `mutation ($parent: ID!, $name: String!, $values: JSON, $labels: Boolean) {
  create_subitem(parent_item_id: $parent, item_name: $name, column_values: $values, create_labels_if_missing: $labels) { id }
}`

const changeColumnValuesMutation = `mutation ($board: ID!, $item: ID!, $values: JSON!, $labels: Boolean) {
  change_multiple_column_values(board_id: $board, item_id: $item, column_values: $values, create_labels_if_missing: $labels) { id }
}`

const deleteItemMutation = `mutation ($item: ID!) { delete_item(item_id: $item) { id } }`

const archiveItemMutation = `mutation ($item: ID!) { archive_item(item_id: $item) { id } }`

const createBoardMutation = `mutation ($name: String!, $kind: BoardKind!, $workspace: ID) {
  create_board(board_name: $name, board_kind: $kind, workspace_id: $workspace) { id name board_kind }
}`

const createColumnMutation = `mutation ($board: ID!, $title: String!, $type: ColumnType!) {
  create_column(board_id: $board, title: $title, column_type: $type) { id title type }
}`

const createGroupMutation = `mutation ($board: ID!, $name: String!) {
  create_group(board_id: $board, group_name: $name) { id title }
}`
