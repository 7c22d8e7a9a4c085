package models

// OwnerOrg implementations let tenant-scoped lookups verify row ownership.

func (o *Organization) OwnerOrg() uint { return o.ID }

func (a *AssetType) OwnerOrg() uint { return a.OrganizationID }

func (f *AssetTypeField) OwnerOrg() uint { return f.OrganizationID }

func (f *FlexibleAsset) OwnerOrg() uint { return f.OrganizationID }

func (a *Asset) OwnerOrg() uint { return a.OrganizationID }

func (c *NetworkPortConfiguration) OwnerOrg() uint { return c.OrganizationID }

func (r *Relationship) OwnerOrg() uint { return r.OrganizationID }
